package toolexec

import (
	"context"
	"strconv"
	"strings"

	"github.com/chartsync/chartsync/pkg/metrics"
)

// InstrumentedExecutor wraps another executor and records Prometheus
// metrics for every invocation, labeled by helm subcommand and exit
// code.
type InstrumentedExecutor struct {
	next Executor
}

// NewInstrumentedExecutor wraps next with metric recording
func NewInstrumentedExecutor(next Executor) *InstrumentedExecutor {
	return &InstrumentedExecutor{next: next}
}

// Run delegates to the wrapped executor and observes the result
func (e *InstrumentedExecutor) Run(ctx context.Context, argv []string) (Result, error) {
	res, err := e.next.Run(ctx, argv)

	sub := Subcommand(argv)
	if err != nil {
		metrics.HelmCommandsTotal.WithLabelValues(sub, "error").Inc()
		return res, err
	}

	metrics.HelmCommandsTotal.WithLabelValues(sub, strconv.Itoa(res.ExitCode)).Inc()
	metrics.HelmCommandDuration.WithLabelValues(sub).Observe(res.Duration.Seconds())
	return res, nil
}

// Subcommand extracts the helm subcommand from an argument vector,
// skipping the binary and any connection flags that prefix it.
func Subcommand(argv []string) string {
	if len(argv) < 2 {
		return "unknown"
	}
	for _, arg := range argv[1:] {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return "unknown"
}
