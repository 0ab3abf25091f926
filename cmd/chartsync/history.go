package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/client"
	"github.com/chartsync/chartsync/pkg/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history [RELEASE]",
	Short: "Show journaled reconciliation runs",
	Long: `List past reconciliation runs from the local journal, newest
first. With a release name, only that release's runs are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("data-dir", "./chartsync-data", "Directory holding the run journal")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().String("server", "", "Query a running chartsync server instead of the local journal")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	var records []*journal.Record
	var err error
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		c := client.New(server)
		if len(args) == 1 {
			records, err = c.ReleaseHistory(args[0], limit)
		} else {
			records, err = c.History(limit)
		}
	} else {
		records, err = localHistory(cmd, args, limit)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-20s %-20s %-12s %-8s %-8s %s\n",
		"STARTED", "RELEASE", "NAMESPACE", "ACTION", "CHANGED", "NOTE")
	for _, rec := range records {
		note := rec.Error
		if note == "" && rec.AlreadyAbsent {
			note = "already absent"
		}
		fmt.Printf("%-20s %-20s %-12s %-8s %-8t %s\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Release,
			rec.Namespace,
			rec.Action,
			rec.Changed,
			note,
		)
	}
	return nil
}

func localHistory(cmd *cobra.Command, args []string, limit int) ([]*journal.Record, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")

	j, err := journal.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %v", err)
	}
	defer j.Close()

	if len(args) == 1 {
		return j.ByRelease(args[0], limit)
	}
	return j.List(limit)
}
