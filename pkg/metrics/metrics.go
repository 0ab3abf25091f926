package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconciliation metrics
	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartsync_reconciliations_total",
			Help: "Total number of reconciliation runs by action and result",
		},
		[]string{"action", "result"},
	)

	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chartsync_reconciliation_duration_seconds",
			Help:    "Duration of full reconciliation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ImmutableFieldViolationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chartsync_immutable_field_violations_total",
			Help: "Total number of reconciliations rejected for changing an immutable field",
		},
	)

	// Helm invocation metrics
	HelmCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartsync_helm_commands_total",
			Help: "Total number of helm invocations by subcommand and exit code",
		},
		[]string{"subcommand", "exit"},
	)

	HelmCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartsync_helm_command_duration_seconds",
			Help:    "Helm invocation duration in seconds by subcommand",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subcommand"},
	)

	// Release inventory metrics (updated by the collector)
	ReleasesDeployed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chartsync_releases_deployed",
			Help: "Number of releases the tool currently reports",
		},
	)

	ReleasesByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chartsync_releases_by_status",
			Help: "Number of deployed releases by tool-reported status",
		},
		[]string{"status"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartsync_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartsync_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ReconciliationsTotal)
	prometheus.MustRegister(ReconciliationDuration)
	prometheus.MustRegister(ImmutableFieldViolationsTotal)
	prometheus.MustRegister(HelmCommandsTotal)
	prometheus.MustRegister(HelmCommandDuration)
	prometheus.MustRegister(ReleasesDeployed)
	prometheus.MustRegister(ReleasesByStatus)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
