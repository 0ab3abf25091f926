package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/reconciler"
	"github.com/chartsync/chartsync/pkg/report"
	"github.com/chartsync/chartsync/pkg/types"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy RELEASE",
	Short: "Remove a deployed release",
	Long: `Delete the named release. Destroying a release that does not
exist is not an error: the result reports changed=false.`,
	Args: cobra.ExactArgs(1),
	RunE: runDestroy,
}

func init() {
	destroyCmd.Flags().String("binary", "", "Helm binary (default: resolve from PATH)")
	destroyCmd.Flags().String("data-dir", "./chartsync-data", "Directory for the run journal")
	destroyCmd.Flags().Bool("no-journal", false, "Skip journaling this run")
	destroyCmd.Flags().String("tiller-host", "", "Tiller host (helm v2 only)")
	destroyCmd.Flags().String("tiller-namespace", "default", "Tiller namespace (helm v2 only)")

	rootCmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	binary, _ := cmd.Flags().GetString("binary")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	noJournal, _ := cmd.Flags().GetBool("no-journal")
	tillerHost, _ := cmd.Flags().GetString("tiller-host")
	tillerNamespace, _ := cmd.Flags().GetString("tiller-namespace")

	var j *journal.Journal
	var err error
	if !noJournal {
		j, err = journal.Open(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open journal: %v", err)
		}
		defer j.Close()
	}

	engine, err := reconciler.NewEngine(reconciler.Config{
		BinaryPath: binary,
		Journal:    j,
	})
	if err != nil {
		return err
	}

	spec := &types.ReleaseSpec{
		Name:      args[0],
		Namespace: "default",
		State:     types.StateAbsent,
		Tiller: types.TillerConfig{
			Host:      tillerHost,
			Namespace: tillerNamespace,
		},
	}

	reporter := report.NewReporter(os.Stdout)

	outcome, err := engine.Reconcile(cmd.Context(), spec)
	if err != nil {
		_ = reporter.Failure(spec.Name, err)
		return fmt.Errorf("failed to destroy release %s", spec.Name)
	}
	return reporter.Success(outcome)
}
