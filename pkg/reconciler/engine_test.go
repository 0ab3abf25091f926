package reconciler

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartsync/chartsync/pkg/events"
	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/toolexec"
	"github.com/chartsync/chartsync/pkg/types"
)

const (
	modernVersion = "v3.2.1"
	legacyVersion = "v2.16.1"

	modernListMyapp = `- app_version: "1.19"
  chart: mychart-1.0.0
  name: myapp
  namespace: default
  revision: "2"
  status: deployed
  updated: 2021-03-01 10:14:37.177 +0000 UTC
`
)

func newTestEngine(t *testing.T, fake *toolexec.Fake, cfg Config) *Engine {
	t.Helper()
	cfg.BinaryPath = "helm"
	cfg.Executor = fake
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

func TestReconcileFreshInstall(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: ""}).
		Expect(toolexec.Result{Stdout: "Release \"myapp\" has been upgraded."})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
	}

	outcome, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, types.ActionDeploy, outcome.Action)
	assert.True(t, outcome.Changed)
	assert.False(t, outcome.AlreadyAbsent)
	assert.Contains(t, outcome.Stdout, "upgraded")

	require.Len(t, fake.Calls, 3)
	assert.Equal(t,
		[]string{"helm", "version", "--client", "--template", "{{ .Client.SemVer }}"},
		fake.Calls[0])
	assert.Equal(t, []string{"helm", "list", "--output=yaml"}, fake.Calls[1])
	assert.Equal(t,
		[]string{"helm", "upgrade", "-i", "--version=1.0.0", "--namespace=default", "myapp", "mychart"},
		fake.Calls[2])
	assert.Zero(t, fake.Remaining())
}

func TestReconcileUpToDate(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: modernListMyapp}).
		Expect(toolexec.Result{Stdout: "replicas: 1\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
		Values:       map[string]interface{}{"replicas": 1},
	}

	outcome, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, types.ActionNone, outcome.Action)
	assert.False(t, outcome.Changed)

	require.Len(t, fake.Calls, 3)
	assert.Equal(t, []string{"helm", "get", "values", "--output=yaml", "myapp"}, fake.Calls[2])
}

func TestReconcileUpgradeOnFullDrift(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: modernListMyapp}).
		Expect(toolexec.Result{Stdout: "replicas: 1\n"}).
		Expect(toolexec.Result{Stdout: "Release \"myapp\" has been upgraded."})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "2.0.0",
		Values:       map[string]interface{}{"replicas": 3},
	}

	outcome, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, types.ActionDeploy, outcome.Action)
	assert.True(t, outcome.Changed)
	require.Len(t, fake.Calls, 4)
}

func TestReconcileNamespaceChangeFails(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: modernListMyapp}).
		Expect(toolexec.Result{Stdout: "replicas: 1\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "web",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.Error(t, err)

	var immutableErr *types.ImmutableFieldError
	require.True(t, errors.As(err, &immutableErr))

	// Observation only: no mutating command may run after the failure
	assert.Len(t, fake.Calls, 3)
	assert.Zero(t, fake.Remaining())
}

func TestReconcileDeleteSkipsObservation(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: "release \"myapp\" deleted"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:      "myapp",
		Namespace: "default",
		State:     types.StateAbsent,
		ChartName: "mychart",
	}

	outcome, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, types.ActionDelete, outcome.Action)
	assert.True(t, outcome.Changed)
	assert.False(t, outcome.AlreadyAbsent)

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []string{"helm", "delete", "--purge", "myapp"}, fake.Calls[1])
}

func TestReconcileDeleteAlreadyAbsent(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{ExitCode: 1, Stderr: "Error: release: myapp not found\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:      "myapp",
		Namespace: "default",
		State:     types.StateAbsent,
		ChartName: "mychart",
	}

	outcome, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, types.ActionDelete, outcome.Action)
	assert.False(t, outcome.Changed)
	assert.True(t, outcome.AlreadyAbsent)
}

func TestReconcileDeleteHardFailure(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{ExitCode: 1, Stderr: "Error: tiller unreachable\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:      "myapp",
		Namespace: "default",
		State:     types.StateAbsent,
		ChartName: "mychart",
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.Error(t, err)

	var toolErr *types.ToolExecutionError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Contains(t, toolErr.Command, "delete")
}

func TestReconcileDeployFailure(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: ""}).
		Expect(toolexec.Result{ExitCode: 1, Stderr: "Error: chart not found\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.Error(t, err)

	var toolErr *types.ToolExecutionError
	require.True(t, errors.As(err, &toolErr))
	assert.Contains(t, toolErr.Command, "upgrade")
	assert.Contains(t, err.Error(), "Failure when executing Helm command. Exited 1.")
}

func TestReconcileLegacyConnectionFlags(t *testing.T) {
	tests := []struct {
		name   string
		tiller types.TillerConfig
		want   string
	}{
		{
			name:   "no host scopes through host flag",
			tiller: types.TillerConfig{},
			want:   "--host=default",
		},
		{
			name:   "host set scopes through tiller namespace",
			tiller: types.TillerConfig{Host: "tiller.example:44134", Namespace: "kube-system"},
			want:   "--tiller-namespace=kube-system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := toolexec.NewFake().
				Expect(toolexec.Result{Stdout: legacyVersion}).
				Expect(toolexec.Result{Stdout: "release \"myapp\" deleted"})

			e := newTestEngine(t, fake, Config{})

			spec := &types.ReleaseSpec{
				Name:      "myapp",
				Namespace: "default",
				State:     types.StateAbsent,
				ChartName: "mychart",
				Tiller:    tt.tiller,
			}

			_, err := e.Reconcile(context.Background(), spec)
			require.NoError(t, err)

			require.Len(t, fake.Calls, 2)
			// Probe runs before the dialect is known, so only the
			// commands after it carry the connection flag.
			assert.Equal(t, []string{"helm", "version", "--client", "--template", "{{ .Client.SemVer }}"}, fake.Calls[0])
			assert.Equal(t, []string{"helm", tt.want, "delete", "--purge", "myapp"}, fake.Calls[1])
		})
	}
}

func TestReconcileMaterializesValuesFile(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: ""}).
		Expect(toolexec.Result{Stdout: "deployed"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
		Values:       map[string]interface{}{"replicas": 2},
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, fake.Calls, 3)
	deploy := fake.Calls[2]

	var valuesPath string
	for _, arg := range deploy {
		if strings.HasPrefix(arg, "-f=") {
			valuesPath = strings.TrimPrefix(arg, "-f=")
		}
	}
	require.NotEmpty(t, valuesPath, "deploy command should carry a values file: %v", deploy)

	_, statErr := os.Stat(valuesPath)
	assert.True(t, os.IsNotExist(statErr), "values file should be removed after the run")
}

func TestReconcileProbeFailure(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 127, Stderr: "helm: not found\n"})

	e := newTestEngine(t, fake, Config{})

	spec := &types.ReleaseSpec{
		Name:      "myapp",
		Namespace: "default",
		State:     types.StatePresent,
		ChartName: "mychart",
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.Error(t, err)

	var toolErr *types.ToolExecutionError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 127, toolErr.ExitCode)
	assert.Len(t, fake.Calls, 1)
}

func TestReconcileWritesJournal(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: ""}).
		Expect(toolexec.Result{Stdout: "deployed"}).
		Expect(toolexec.Result{ExitCode: 127, Stderr: "gone\n"})

	e := newTestEngine(t, fake, Config{Journal: j})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
	}

	_, err = e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	// Second run fails at the probe and must be journaled too
	_, err = e.Reconcile(context.Background(), spec)
	require.Error(t, err)

	records, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var succeeded, failed *journal.Record
	for _, rec := range records {
		if rec.Error == "" {
			succeeded = rec
		} else {
			failed = rec
		}
	}
	require.NotNil(t, succeeded)
	require.NotNil(t, failed)

	assert.Equal(t, types.ActionDeploy, succeeded.Action)
	assert.True(t, succeeded.Changed)
	assert.Equal(t, modernVersion, succeeded.HelmVersion)
	assert.Equal(t, "myapp", failed.Release)
	assert.Contains(t, failed.Error, "Exited 127")
}

func TestReconcilePublishesEvents(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()

	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: modernListMyapp}).
		Expect(toolexec.Result{Stdout: "replicas: 1\n"})

	e := newTestEngine(t, fake, Config{Events: broker})

	spec := &types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		State:        types.StatePresent,
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
		Values:       map[string]interface{}{"replicas": 1},
	}

	_, err := e.Reconcile(context.Background(), spec)
	require.NoError(t, err)

	first := receiveEvent(t, sub)
	assert.Equal(t, events.EventReconcileStarted, first.Type)

	second := receiveEvent(t, sub)
	assert.Equal(t, events.EventReleaseUnchanged, second.Type)
	require.NotNil(t, second.Outcome)
	assert.Equal(t, types.ActionNone, second.Outcome.Action)
}

func receiveEvent(t *testing.T, sub events.Subscriber) *events.Event {
	t.Helper()
	select {
	case event := <-sub:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestNewEngineResolvesBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewEngine(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helm binary not found")

	e, err := NewEngine(Config{BinaryPath: "/opt/helm/bin/helm", Executor: toolexec.NewFake()})
	require.NoError(t, err)
	assert.Equal(t, "/opt/helm/bin/helm", e.binary)
}

func TestListReleases(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: modernListMyapp})

	e := newTestEngine(t, fake, Config{})

	releases, err := e.ListReleases(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "myapp", releases[0].Name)
	assert.Equal(t, "mychart-1.0.0", releases[0].ChartIdentity)
	assert.Equal(t, 2, releases[0].Revision)
}

func TestStatusAbsentRelease(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{Stdout: modernVersion}).
		Expect(toolexec.Result{Stdout: ""})

	e := newTestEngine(t, fake, Config{})

	observed, err := e.Status(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, observed)
}
