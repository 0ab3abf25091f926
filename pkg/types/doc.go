/*
Package types defines the core data structures used throughout chartsync.

This package contains the fundamental types that represent chartsync's domain
model: desired release specifications, observed release state, reconciliation
outcomes, and the typed errors raised along the reconciliation path. These
types are shared by every other package and carry no behavior beyond small
derivation helpers.

# Architecture

The types package is the foundation of chartsync's data model. It defines:

  - Desired state (ReleaseSpec with repository and tiller settings)
  - Observed state (ObservedRelease as reported by the helm binary)
  - Reconciliation results (Action, Outcome)
  - Error taxonomy (ToolExecutionError, ImmutableFieldError)

All types are designed to be:
  - Serializable (JSON for the journal, YAML-adjacent for documents)
  - Immutable in use (a ReleaseSpec is built once per run and never mutated)
  - Free of I/O (no package here touches the helm binary or the filesystem)

# Core Types

Desired State:
  - ReleaseSpec: Name, namespace, chart identity, values overlay
  - ReleaseState: Present or absent
  - RepoConfig: Chart repository URL with optional credentials
  - TillerConfig: Legacy (v2) tiller connection settings

Observed State:
  - ObservedRelease: One deployed release from the tool's listing,
    enriched with its currently-applied values

Results:
  - Action: none, deploy, or delete
  - Outcome: Terminal value of a successful run (changed flag, captured
    stdout/stderr, timing)

Errors:
  - ToolExecutionError: A helm invocation exited nonzero
  - ImmutableFieldError: The desired spec changes a field that cannot
    change on a deployed release

# Lifecycle

A ReleaseSpec is constructed once from input parameters (see the params
package) and read-only thereafter. An ObservedRelease is constructed fresh
on every reconciliation run and discarded after the decision is made.
Nothing in this package persists across invocations: chartsync holds no
authoritative state, only control logic, and always re-queries the tool.

# Usage

Declaring a desired release:

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.2.3",
		Values:       map[string]interface{}{"replicas": 2},
		Repo:         types.RepoConfig{URL: "https://charts.example.com"},
	}

Classifying a failure:

	var toolErr *types.ToolExecutionError
	if errors.As(err, &toolErr) {
		fmt.Println(toolErr.Command, toolErr.ExitCode)
	}

# Integration Points

This package is imported by:
  - helmcmd: Builds argument vectors from ReleaseSpec fields
  - status: Produces ObservedRelease values from tool listings
  - reconciler: Compares desired and observed state, returns Outcome
  - journal: Persists Outcome-derived records
  - report: Surfaces Outcome and error payloads to callers
*/
package types
