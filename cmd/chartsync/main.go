package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chartsync",
	Short: "chartsync - Declarative Helm release reconciliation",
	Long: `chartsync converges Helm releases to the state declared in a
manifest. It shells out to the helm binary you already trust, speaks
both the v2 and v3 dialects, and only issues the commands needed to
close the gap between declared and deployed state.

Releases are described as data (chart, version, repository, values)
and chartsync decides per release whether to install, upgrade, delete,
or leave it alone. Every run is journaled for audit.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
	},
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"chartsync version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")
}
