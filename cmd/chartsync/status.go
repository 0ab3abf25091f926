package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chartsync/chartsync/pkg/client"
	"github.com/chartsync/chartsync/pkg/reconciler"
	"github.com/chartsync/chartsync/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [RELEASE]",
	Short: "Show deployed releases as the tool reports them",
	Long: `Query the cluster through helm and print what is actually
deployed. With a release name, the output includes the release's
currently applied values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("binary", "", "Helm binary (default: resolve from PATH)")
	statusCmd.Flags().String("tiller-host", "", "Tiller host (helm v2 only)")
	statusCmd.Flags().String("tiller-namespace", "default", "Tiller namespace (helm v2 only)")
	statusCmd.Flags().String("server", "", "Query a running chartsync server instead of helm directly")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		return remoteStatus(client.New(server), args)
	}

	binary, _ := cmd.Flags().GetString("binary")
	tillerHost, _ := cmd.Flags().GetString("tiller-host")
	tillerNamespace, _ := cmd.Flags().GetString("tiller-namespace")

	engine, err := reconciler.NewEngine(reconciler.Config{
		BinaryPath: binary,
		Tiller: types.TillerConfig{
			Host:      tillerHost,
			Namespace: tillerNamespace,
		},
	})
	if err != nil {
		return err
	}

	if len(args) == 1 {
		observed, err := engine.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if observed == nil {
			return fmt.Errorf("release not found: %s", args[0])
		}
		return writeYAML(observed)
	}

	releases, err := engine.ListReleases(cmd.Context())
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Println("No releases deployed.")
		return nil
	}
	return writeYAML(releases)
}

func remoteStatus(c *client.Client, args []string) error {
	if len(args) == 1 {
		observed, err := c.GetRelease(args[0])
		if err != nil {
			return err
		}
		if observed == nil {
			return fmt.Errorf("release not found: %s", args[0])
		}
		return writeYAML(observed)
	}

	releases, err := c.ListReleases()
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Println("No releases deployed.")
		return nil
	}
	return writeYAML(releases)
}

func writeYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
