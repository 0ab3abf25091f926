// Package api exposes reconciliation over HTTP.
//
// # Endpoints
//
//	POST /api/v1/reconcile               converge one release from JSON params
//	GET  /api/v1/version                 probed helm version and dialect
//	GET  /api/v1/releases                all releases the tool reports
//	GET  /api/v1/releases/:name          one release with applied values
//	GET  /api/v1/releases/:name/history  journaled runs for one release
//	GET  /api/v1/history                 recent journaled runs, ?limit=N
//	GET  /healthz, /readyz, /livez       health surface
//	GET  /metrics                        Prometheus exposition
//
// # Status Codes
//
// The reconcile endpoint maps failures onto HTTP semantics: 400 for
// parameter validation, 409 for an immutable field conflict (the
// namespace of a deployed release), 500 for tool failures. Failure
// bodies reuse the report payload, so the exact failed command and
// its output travel with the error.
//
// # Serving
//
// The server is a thin gin router over the engine; handlers hold no
// state and every request re-observes the cluster. Responses are
// gzip-compressed except the metrics exposition. Router is exported
// so tests drive handlers without a listener:
//
//	s := api.NewServer(engine, j)
//	go s.Start(":8080")
//	defer s.Stop(ctx)
package api
