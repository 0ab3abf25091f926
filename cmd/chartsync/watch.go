package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chartsync/chartsync/pkg/events"
	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/log"
	"github.com/chartsync/chartsync/pkg/metrics"
	"github.com/chartsync/chartsync/pkg/params"
	"github.com/chartsync/chartsync/pkg/reconciler"
	"github.com/chartsync/chartsync/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously converge releases from a manifest",
	Long: `Run the reconciliation loop: every release in the manifest is
re-reconciled on an interval, so drift introduced outside chartsync is
converged back. An optional metrics listener exposes Prometheus
metrics and health endpoints.

Examples:
  # Reconcile every 5 minutes
  chartsync watch -f releases.yml

  # Tighter loop with a metrics listener
  chartsync watch -f releases.yml --interval 1m --metrics-addr :9090`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("file", "f", "", "Release manifest to watch (required)")
	watchCmd.Flags().Duration("interval", 5*time.Minute, "Time between reconciliation cycles")
	watchCmd.Flags().String("binary", "", "Helm binary (default: manifest's binary_path, then PATH)")
	watchCmd.Flags().String("data-dir", "./chartsync-data", "Directory for the run journal")
	watchCmd.Flags().String("metrics-addr", "", "Listen address for metrics and health (disabled when empty)")
	_ = watchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	interval, _ := cmd.Flags().GetDuration("interval")
	binary, _ := cmd.Flags().GetString("binary")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	file, err := params.Load(filename)
	if err != nil {
		return err
	}
	resolved, err := file.Resolve()
	if err != nil {
		return err
	}
	specs := make([]types.ReleaseSpec, 0, len(resolved))
	for _, spec := range resolved {
		specs = append(specs, *spec)
	}

	if binary == "" {
		binary = file.Binary()
	}

	j, err := journal.Open(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open journal: %v", err)
	}
	defer j.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	engine, err := reconciler.NewEngine(reconciler.Config{
		BinaryPath: binary,
		Journal:    j,
		Events:     broker,
	})
	if err != nil {
		return err
	}

	metrics.SetVersion(Version)
	metrics.RegisterComponent("helm", true, "")
	metrics.RegisterComponent("journal", true, "")

	// Audit trail: every lifecycle event lands in the log
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)
	go logEvents(sub)

	loop := reconciler.NewLoop(engine, specs, interval)
	loop.Start()
	defer loop.Stop()

	errCh := make(chan error, 1)
	if metricsAddr != "" {
		srv := metricsServer(metricsAddr)
		go func() {
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				errCh <- fmt.Errorf("metrics server error: %v", err)
			}
		}()
		defer srv.Close()
		fmt.Printf("Metrics listening on %s\n", metricsAddr)
	}

	fmt.Printf("Watching %d releases every %s. Press Ctrl+C to stop.\n", len(specs), interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case err := <-errCh:
		return err
	}
	return nil
}

func logEvents(sub events.Subscriber) {
	logger := log.WithComponent("watch")
	for event := range sub {
		entry := logger.Info().
			Str("event", string(event.Type)).
			Str("release", event.Release).
			Str("namespace", event.Namespace)
		if event.Error != "" {
			entry = entry.Str("error", event.Error)
		}
		entry.Msg("Release event")
	}
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())
	mux.HandleFunc("/livez", metrics.LivenessHandler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
