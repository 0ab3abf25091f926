// Package reconciler drives Helm releases from desired state to
// actual state.
//
// # Architecture
//
// The package splits reconciliation into a pure decision and an
// impure execution around it:
//
//	┌─────────────────────────────────────────────────────┐
//	│                      Engine                         │
//	│                                                     │
//	│  probe ──► observe ──► Decide ──► deploy / delete   │
//	│ (dialect)  (status)    (pure)      (toolexec)       │
//	│                                                     │
//	│        journal ◄── outcome ──► events, metrics      │
//	└─────────────────────────────────────────────────────┘
//
// Decide is a function over (desired spec, observed release) with no
// side effects; everything that touches the outside world lives in
// the Engine. This keeps the convergence rules testable without a
// cluster and makes the command sequence of a run fully scripted.
//
// # Reconciliation Flow
//
// Every run is a fresh session. The engine probes the helm client
// version once, derives the dialect, and on legacy clients plants the
// tiller connection flags into the session's command builder so every
// later command carries them. It then observes the release (listing
// plus applied values), asks Decide for the converging action, and
// executes it. Nothing is cached between runs: the cluster is always
// re-read, so outside drift is seen and converged.
//
// Desired absence short-circuits the observation. The delete command
// is idempotent on its own: a "release not found" error from the tool
// is recognized and reported as an unchanged outcome rather than a
// failure.
//
// # Decision Rules
//
// For a release that should be present:
//
//   - Not installed: deploy (first install).
//   - Installed in a different namespace: fail. The namespace is
//     immutable on a deployed chart; converging it would need a
//     destroy-and-recreate, which is never done implicitly.
//   - Values AND chart identity both diverged: deploy (upgrade).
//   - Anything else: leave the release alone.
//
// The upgrade trigger is deliberately conjunctive. A values-only edit
// or a chart-only bump does not redeploy; both must drift together.
// Operators who want a forced redeploy express it as absent followed
// by present.
//
// # Outcomes and Failures
//
// A successful run yields a types.Outcome carrying the action, the
// changed flag, and the tool's output. Failures are errors, never
// outcomes: a nonzero helm exit surfaces as types.ToolExecutionError
// with the full command and both streams, and a namespace conflict as
// types.ImmutableFieldError. Both survive wrapping, so callers can
// errors.As their way to the details.
//
// Every run, successful or not, is appended to the journal and
// published on the event broker when those are configured. Metrics
// are recorded unconditionally.
//
// # Usage
//
// One-shot reconciliation:
//
//	engine, err := reconciler.NewEngine(reconciler.Config{
//		Journal: j,
//	})
//	if err != nil {
//		return err
//	}
//
//	outcome, err := engine.Reconcile(ctx, &types.ReleaseSpec{
//		Name:         "myapp",
//		Namespace:    "default",
//		State:        types.StatePresent,
//		ChartName:    "mychart",
//		ChartVersion: "1.0.0",
//		Repo:         types.RepoConfig{URL: "https://charts.example.com"},
//	})
//
// Continuous convergence:
//
//	loop := reconciler.NewLoop(engine, specs, 5*time.Minute)
//	loop.Start()
//	defer loop.Stop()
//
// # Integration Points
//
//   - pkg/toolexec: command execution, swapped for a scripted fake in
//     tests
//   - pkg/dialect and pkg/status: session probe and state observation
//   - pkg/journal: durable run history
//   - pkg/events: lifecycle notifications for watchers
//   - pkg/metrics: counters, durations, and violation tracking
package reconciler
