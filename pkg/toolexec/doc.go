/*
Package toolexec is chartsync's boundary to external processes.

Everything above this package reasons about argument vectors and
captured output; everything below it is os/exec. The central contract
is the Executor interface:

	type Executor interface {
		Run(ctx context.Context, argv []string) (Result, error)
	}

A nonzero exit code is not an error here. The helm binary uses exit
codes and stderr patterns to communicate outcomes (a delete of an
absent release exits 1 with a recognizable message), so classification
belongs to the callers who know the intent of the command. The error
return is reserved for failures to run the tool at all: a missing
binary, a canceled context.

# Implementations

  - OSExecutor: the production implementation. Blocking, synchronous,
    captures stdout and stderr separately, honors context cancellation
    through exec.CommandContext.
  - Fake: a scripted executor for tests. Results are queued with Expect
    and replayed in order; every received argv is recorded in Calls so
    tests can assert exactly which commands were (and were not) built.
  - InstrumentedExecutor: a wrapper that counts invocations and
    observes durations per helm subcommand in Prometheus.

The executor is always an explicit dependency of the components that
invoke the tool; there is no package-level default. That is what makes
the Fake substitutable in tests.
*/
package toolexec
