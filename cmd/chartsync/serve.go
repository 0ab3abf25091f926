package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/api"
	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/metrics"
	"github.com/chartsync/chartsync/pkg/reconciler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconciliation HTTP API",
	Long: `Start the HTTP API server. Releases are reconciled on demand
via POST /api/v1/reconcile and inspected via the read endpoints; the
run journal backs the history endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address for the API")
	serveCmd.Flags().String("binary", "", "Helm binary (default: resolve from PATH)")
	serveCmd.Flags().String("data-dir", "./chartsync-data", "Directory for the run journal")
	serveCmd.Flags().Duration("collect-interval", 30*time.Second, "Release inventory polling interval")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	binary, _ := cmd.Flags().GetString("binary")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	collectInterval, _ := cmd.Flags().GetDuration("collect-interval")

	metrics.SetVersion(Version)

	j, err := journal.Open(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open journal: %v", err)
	}
	defer j.Close()

	engine, err := reconciler.NewEngine(reconciler.Config{
		BinaryPath: binary,
		Journal:    j,
	})
	if err != nil {
		return err
	}

	metrics.RegisterComponent("helm", true, "")
	metrics.RegisterComponent("journal", true, "")

	// Keeps the release gauges and the helm health signal fresh
	collector := metrics.NewCollector(engine, collectInterval)
	collector.Start()
	defer collector.Stop()

	server := api.NewServer(engine, j)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(addr); err != nil {
			errCh <- err
		}
	}()

	fmt.Printf("API server running on %s. Press Ctrl+C to stop.\n", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
