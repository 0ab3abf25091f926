/*
Package client provides a Go client library for the chartsync HTTP API.

It exists so that tools and tests can drive a running chartsync server
without hand-rolling HTTP calls: one method per endpoint, with request
and response types shared with the server wherever the wire shape
allows it.

# Architecture

	┌──────────────────── APPLICATION CODE ────────────────────┐
	│                                                          │
	│  import "github.com/chartsync/chartsync/pkg/client"      │
	│                                                          │
	│  c := client.New("http://127.0.0.1:8080")                │
	│  result, err := c.Reconcile(&params.Params{...})         │
	│                                                          │
	└────────────────────────┬─────────────────────────────────┘
	                         │ JSON over HTTP
	                         ▼
	┌──────────────────── CHARTSYNC SERVER ────────────────────┐
	│  POST /api/v1/reconcile      converge one release        │
	│  GET  /api/v1/releases       list deployed releases      │
	│  GET  /api/v1/releases/:name status with values          │
	│  GET  /api/v1/history        journaled runs              │
	│  GET  /api/v1/version        probed helm version         │
	│  GET  /healthz               component health            │
	└──────────────────────────────────────────────────────────┘

# Observation Semantics

Read calls mirror the engine's view of the cluster. GetRelease returns
(nil, nil) for a release the server does not know: absence is a valid
observation, not a failure.

# Error Handling

Every non-2xx response is returned as an *APIError carrying the HTTP
status code and the server's message. When the server produced a full
failure report, for example a helm command that exited nonzero during
a reconcile, the report is attached as APIError.Failure with the
command line and its captured output:

	result, err := c.Reconcile(p)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Failure != nil {
			log.Printf("helm said: %s", apiErr.Failure.Stderr)
		}
	}

# Timeouts

Read calls are bounded to a few seconds. Reconcile is bounded to the
same per-release budget the watch loop uses, since the server holds
the request open while helm runs.
*/
package client
