package reconciler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/chartsync/chartsync/pkg/dialect"
	"github.com/chartsync/chartsync/pkg/events"
	"github.com/chartsync/chartsync/pkg/helmcmd"
	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/log"
	"github.com/chartsync/chartsync/pkg/metrics"
	"github.com/chartsync/chartsync/pkg/status"
	"github.com/chartsync/chartsync/pkg/toolexec"
	"github.com/chartsync/chartsync/pkg/types"
)

// Config holds engine configuration
type Config struct {
	// BinaryPath is the helm binary to run. Empty means resolve
	// "helm" from PATH at construction time.
	BinaryPath string

	// Tiller is the session-level legacy connection default, used
	// when a release spec does not carry its own.
	Tiller types.TillerConfig

	// Executor overrides how commands run. Nil means the host OS
	// executor wrapped with metric recording.
	Executor toolexec.Executor

	// Journal, when set, receives a record of every run
	Journal *journal.Journal

	// Events, when set, receives lifecycle events for every run
	Events *events.Broker
}

// Engine reconciles desired release specs against the cluster state
// reported by the helm binary. It holds no release state of its own:
// every run re-observes through the tool.
type Engine struct {
	exec    toolexec.Executor
	binary  string
	tiller  types.TillerConfig
	journal *journal.Journal
	events  *events.Broker
	logger  zerolog.Logger
}

// NewEngine creates an engine, resolving the helm binary up front so
// a misconfigured host fails before any reconciliation is attempted.
func NewEngine(cfg Config) (*Engine, error) {
	binary := cfg.BinaryPath
	if binary == "" {
		path, err := exec.LookPath("helm")
		if err != nil {
			return nil, fmt.Errorf("helm binary not found in PATH: %w", err)
		}
		binary = path
	}

	executor := cfg.Executor
	if executor == nil {
		executor = toolexec.NewInstrumentedExecutor(toolexec.NewOSExecutor())
	}

	tiller := cfg.Tiller
	if tiller.Namespace == "" {
		tiller.Namespace = "default"
	}

	return &Engine{
		exec:    executor,
		binary:  binary,
		tiller:  tiller,
		journal: cfg.Journal,
		events:  cfg.Events,
		logger:  log.WithComponent("reconciler"),
	}, nil
}

// session is the per-run command context: the probed dialect and the
// builder carrying any legacy connection flags.
type session struct {
	builder *helmcmd.Builder
	dialect dialect.Dialect
	version string
}

func (e *Engine) newSession(ctx context.Context, tiller types.TillerConfig) (*session, error) {
	builder := helmcmd.NewBuilder(e.binary)

	d, version, err := dialect.Probe(ctx, e.exec, builder)
	if err != nil {
		return nil, err
	}
	if d == dialect.Legacy {
		builder = builder.WithConnectionFlags(tiller)
	}

	return &session{builder: builder, dialect: d, version: version}, nil
}

func (e *Engine) tillerFor(spec *types.ReleaseSpec) types.TillerConfig {
	tiller := spec.Tiller
	if tiller.Host == "" {
		tiller.Host = e.tiller.Host
	}
	if tiller.Namespace == "" {
		tiller.Namespace = e.tiller.Namespace
	}
	return tiller
}

// Reconcile drives one release to its desired state and reports what
// happened. The returned outcome is non-nil exactly when err is nil.
func (e *Engine) Reconcile(ctx context.Context, spec *types.ReleaseSpec) (*types.Outcome, error) {
	started := time.Now()
	timer := metrics.NewTimer()

	logger := e.logger.With().Str("release", spec.Name).Str("namespace", spec.Namespace).Logger()
	logger.Info().
		Str("state", string(spec.State)).
		Str("chart", spec.ChartIdentity()).
		Msg("Reconciling release")

	e.publish(events.NewEvent(events.EventReconcileStarted, spec.Name, spec.Namespace, "reconciliation started"))

	outcome, helmVersion, err := e.run(ctx, spec, started)
	timer.ObserveDuration(metrics.ReconciliationDuration)

	if err != nil {
		var immutableErr *types.ImmutableFieldError
		if errors.As(err, &immutableErr) {
			metrics.ImmutableFieldViolationsTotal.Inc()
		}
		metrics.ReconciliationsTotal.WithLabelValues("error", "failure").Inc()
		logger.Error().Err(err).Msg("Reconciliation failed")

		e.record(journal.FromError(spec.Name, spec.Namespace, started, err))
		event := events.NewEvent(events.EventReconcileFailed, spec.Name, spec.Namespace, "reconciliation failed")
		event.Error = err.Error()
		e.publish(event)
		return nil, err
	}

	result := "unchanged"
	if outcome.Changed {
		result = "changed"
	}
	metrics.ReconciliationsTotal.WithLabelValues(string(outcome.Action), result).Inc()
	logger.Info().
		Str("action", string(outcome.Action)).
		Bool("changed", outcome.Changed).
		Dur("duration", outcome.Duration).
		Msg("Reconciliation complete")

	e.record(journal.FromOutcome(outcome, helmVersion))
	e.publish(events.ForOutcome(outcome))
	return outcome, nil
}

func (e *Engine) run(ctx context.Context, spec *types.ReleaseSpec, started time.Time) (*types.Outcome, string, error) {
	sess, err := e.newSession(ctx, e.tillerFor(spec))
	if err != nil {
		return nil, "", err
	}

	// Deletion never needs the observation: the delete command is
	// idempotent and reports absence itself.
	var observed *types.ObservedRelease
	if spec.State != types.StateAbsent {
		query := status.NewQuery(e.exec, sess.builder, sess.dialect)
		observed, err = query.Observe(ctx, spec.Name)
		if err != nil {
			return nil, sess.version, err
		}
	}

	decision, err := Decide(spec, observed)
	if err != nil {
		return nil, sess.version, err
	}

	var outcome *types.Outcome
	switch decision.Action {
	case types.ActionDeploy:
		outcome, err = e.deploy(ctx, sess.builder, spec)
	case types.ActionDelete:
		outcome, err = e.delete(ctx, sess.builder, spec)
	default:
		outcome = &types.Outcome{
			Release:   spec.Name,
			Namespace: spec.Namespace,
			Action:    types.ActionNone,
		}
	}
	if err != nil {
		return nil, sess.version, err
	}

	outcome.StartedAt = started
	outcome.Duration = time.Since(started)
	return outcome, sess.version, nil
}

func (e *Engine) deploy(ctx context.Context, builder *helmcmd.Builder, spec *types.ReleaseSpec) (*types.Outcome, error) {
	valuesFile, cleanup, err := materializeValues(spec.Values)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	argv := builder.Deploy(spec, valuesFile)
	res, err := e.exec.Run(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("deploying release %q: %w", spec.Name, err)
	}
	if res.ExitCode != 0 {
		return nil, &types.ToolExecutionError{
			Command:  strings.Join(argv, " "),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	return &types.Outcome{
		Release:   spec.Name,
		Namespace: spec.Namespace,
		Action:    types.ActionDeploy,
		Changed:   true,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
	}, nil
}

func (e *Engine) delete(ctx context.Context, builder *helmcmd.Builder, spec *types.ReleaseSpec) (*types.Outcome, error) {
	argv := builder.Delete(spec.Name, true)
	res, err := e.exec.Run(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("deleting release %q: %w", spec.Name, err)
	}

	outcome := &types.Outcome{
		Release:   spec.Name,
		Namespace: spec.Namespace,
		Action:    types.ActionDelete,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
	}

	notFound := fmt.Sprintf("Error: release: %s not found", spec.Name)
	switch {
	case res.ExitCode == 0:
		outcome.Changed = true
	case res.ExitCode == 1 && strings.Contains(res.Stderr, notFound):
		outcome.AlreadyAbsent = true
	default:
		return nil, &types.ToolExecutionError{
			Command:  strings.Join(argv, " "),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}
	return outcome, nil
}

// materializeValues writes a non-empty values mapping to a temporary
// file and returns its path with a cleanup func. An empty mapping
// yields no file and no flag.
func materializeValues(values map[string]interface{}) (string, func(), error) {
	if len(values) == 0 {
		return "", func() {}, nil
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return "", nil, fmt.Errorf("serializing values: %w", err)
	}

	f, err := os.CreateTemp("", "chartsync-values-*.yml")
	if err != nil {
		return "", nil, fmt.Errorf("creating values file: %w", err)
	}
	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing values file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing values file: %w", err)
	}
	return path, cleanup, nil
}

// ListReleases returns every release the tool currently reports. It
// satisfies the metrics collector's lister interface.
func (e *Engine) ListReleases(ctx context.Context) ([]types.ObservedRelease, error) {
	sess, err := e.newSession(ctx, e.tiller)
	if err != nil {
		return nil, err
	}
	return status.NewQuery(e.exec, sess.builder, sess.dialect).List(ctx)
}

// Status returns the observed state of one release, including its
// applied values. A nil release means it is not installed.
func (e *Engine) Status(ctx context.Context, name string) (*types.ObservedRelease, error) {
	sess, err := e.newSession(ctx, e.tiller)
	if err != nil {
		return nil, err
	}
	return status.NewQuery(e.exec, sess.builder, sess.dialect).Observe(ctx, name)
}

// Version probes and returns the helm client version string
func (e *Engine) Version(ctx context.Context) (string, error) {
	sess, err := e.newSession(ctx, e.tiller)
	if err != nil {
		return "", err
	}
	return sess.version, nil
}

func (e *Engine) publish(event *events.Event) {
	if e.events != nil {
		e.events.Publish(event)
	}
}

func (e *Engine) record(rec *journal.Record) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Append(rec); err != nil {
		e.logger.Error().Err(err).Msg("Failed to append journal record")
	}
}
