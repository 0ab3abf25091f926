/*
Package metrics provides Prometheus instrumentation and health
reporting for chartsync.

All metrics are registered at package init and exposed through the
standard promhttp handler, reachable as /metrics on the HTTP API and on
the watch mode's optional metrics listener.

# Metric Families

Reconciliation:
  - chartsync_reconciliations_total{action,result}: every engine run,
    labeled by the chosen action (deploy, delete, none) and its result
    (changed, unchanged, failed)
  - chartsync_reconciliation_duration_seconds: end-to-end run duration
  - chartsync_immutable_field_violations_total: runs rejected for
    attempting to change an immutable field

Helm invocations (recorded by toolexec.InstrumentedExecutor):
  - chartsync_helm_commands_total{subcommand,exit}
  - chartsync_helm_command_duration_seconds{subcommand}

Release inventory (updated by Collector):
  - chartsync_releases_deployed
  - chartsync_releases_by_status{status}

API:
  - chartsync_api_requests_total{method,status}
  - chartsync_api_request_duration_seconds{method}

# Health Reporting

The package also carries a small component-health registry used by the
/health and /ready endpoints. Components report in with
RegisterComponent/UpdateComponent; readiness requires a successful helm
probe, while the journal is reported but not required. The Collector
doubles as the helm liveness signal in long-running modes: every
polling cycle updates the "helm" component from the listing result.

# Timer

Timer is a minimal elapsed-time helper for histogram observation:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconciliationDuration)
*/
package metrics
