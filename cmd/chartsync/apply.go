package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/params"
	"github.com/chartsync/chartsync/pkg/reconciler"
	"github.com/chartsync/chartsync/pkg/report"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge releases to the state declared in a manifest",
	Long: `Apply a release manifest, reconciling every release it declares.

One JSON result is printed per release. A failing release does not
stop the run; the remaining releases are still reconciled and the
command exits nonzero at the end.

Examples:
  # Converge every release in the manifest
  chartsync apply -f releases.yml

  # Use a specific helm binary
  chartsync apply -f releases.yml --binary /usr/local/bin/helm`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "Release manifest to apply (required)")
	applyCmd.Flags().String("binary", "", "Helm binary (default: manifest's binary_path, then PATH)")
	applyCmd.Flags().String("data-dir", "./chartsync-data", "Directory for the run journal")
	applyCmd.Flags().Bool("no-journal", false, "Skip journaling this run")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	binary, _ := cmd.Flags().GetString("binary")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	noJournal, _ := cmd.Flags().GetBool("no-journal")

	file, err := params.Load(filename)
	if err != nil {
		return err
	}
	specs, err := file.Resolve()
	if err != nil {
		return err
	}

	if binary == "" {
		binary = file.Binary()
	}

	var j *journal.Journal
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

	reporter := report.NewReporter(os.Stdout)

	failures := 0
	for _, spec := range specs {
		outcome, err := engine.Reconcile(cmd.Context(), spec)
		if err != nil {
			_ = reporter.Failure(spec.Name, err)
			failures++
			continue
		}
		_ = reporter.Success(outcome)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d releases failed", failures, len(specs))
	}
	return nil
}
