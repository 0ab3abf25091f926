package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chartsync/chartsync/pkg/log"
	"github.com/chartsync/chartsync/pkg/types"
)

const reconcileTimeout = 5 * time.Minute

// Loop periodically re-reconciles a fixed set of releases, converging
// drift between runs. One cycle runs immediately on start.
type Loop struct {
	engine   *Engine
	specs    []types.ReleaseSpec
	interval time.Duration
	stopCh   chan struct{}
	logger   zerolog.Logger
}

// NewLoop creates a reconciliation loop over the given specs
func NewLoop(engine *Engine, specs []types.ReleaseSpec, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Loop{
		engine:   engine,
		specs:    specs,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   log.WithComponent("loop"),
	}
}

// Start begins the reconciliation loop
func (l *Loop) Start() {
	go l.run()
}

// Stop stops the loop. In-flight reconciliations finish their cycle.
func (l *Loop) Stop() {
	close(l.stopCh)
}

func (l *Loop) run() {
	l.cycle()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cycle()
		case <-l.stopCh:
			return
		}
	}
}

// cycle reconciles every spec once, continuing past per-release
// failures so one broken release cannot starve the rest.
func (l *Loop) cycle() {
	for i := range l.specs {
		spec := &l.specs[i]

		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		_, err := l.engine.Reconcile(ctx, spec)
		cancel()

		if err != nil {
			l.logger.Warn().
				Str("release", spec.Name).
				Msg("Release left unconverged, will retry next cycle")
		}
	}
}
