package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/reconciler"
	"github.com/chartsync/chartsync/pkg/types"
)

// fakeHelm is a shell script that mimics the helm CLI closely enough for a
// full reconciliation pass. It keeps its state (whether the release is
// installed) in the directory named by FAKE_HELM_STATE so that consecutive
// engine runs observe each other's effects.
const fakeHelm = `#!/bin/sh
STATE="$FAKE_HELM_STATE"
case "$1" in
version)
	printf 'v3.2.1'
	;;
list)
	if [ -f "$STATE/installed" ]; then
		cat "$STATE/list.yaml"
	fi
	;;
get)
	cat "$STATE/values.yaml"
	;;
upgrade)
	touch "$STATE/installed"
	echo "Release \"myapp\" has been upgraded."
	;;
delete)
	shift
	while [ $# -gt 1 ]; do shift; done
	if [ -f "$STATE/installed" ]; then
		rm "$STATE/installed"
		echo "release \"$1\" deleted"
	else
		echo "Error: release: $1 not found" >&2
		exit 1
	fi
	;;
*)
	echo "fake helm: unknown subcommand $1" >&2
	exit 2
	;;
esac
`

const fakeList = `- name: myapp
  namespace: default
  revision: "1"
  status: deployed
  chart: mychart-1.0.0
  app_version: "1.0"
`

const fakeValues = `replicas: 1
`

// installFakeHelm writes the stub binary and its state fixtures into temp
// directories and points FAKE_HELM_STATE at the state directory.
func installFakeHelm(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("Skipping integration test: sh not available: %v", err)
	}

	binDir := t.TempDir()
	stateDir := t.TempDir()

	helmPath := filepath.Join(binDir, "helm")
	require.NoError(t, os.WriteFile(helmPath, []byte(fakeHelm), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "list.yaml"), []byte(fakeList), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "values.yaml"), []byte(fakeValues), 0644))

	t.Setenv("FAKE_HELM_STATE", stateDir)
	return helmPath
}

// TestReconcileLifecycle drives the engine through a full release lifecycle
// against the fake helm binary: install, converge, delete, and the idempotent
// re-delete. Unlike the unit tests this exercises the real process executor,
// the temp values file handling, and the journal together.
func TestReconcileLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	helmPath := installFakeHelm(t)

	j, err := journal.Open(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	engine, err := reconciler.NewEngine(reconciler.Config{
		BinaryPath: helmPath,
		Journal:    j,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spec := types.ReleaseSpec{
		Name:         "myapp",
		Namespace:    "default",
		ChartName:    "mychart",
		ChartVersion: "1.0.0",
		Values:       map[string]interface{}{"replicas": 1},
		State:        types.StatePresent,
	}

	t.Log("Step 1: Reconciling a release that is not installed yet")
	outcome, err := engine.Reconcile(ctx, &spec)
	require.NoError(t, err)
	assert.Equal(t, types.ActionDeploy, outcome.Action)
	assert.True(t, outcome.Changed)
	t.Log("✓ Release installed")

	t.Log("Step 2: Reconciling again with an unchanged spec")
	outcome, err = engine.Reconcile(ctx, &spec)
	require.NoError(t, err)
	assert.Equal(t, types.ActionNone, outcome.Action)
	assert.False(t, outcome.Changed)
	t.Log("✓ Second run converged without a deploy")

	t.Log("Step 3: Reconciling with state absent")
	spec.State = types.StateAbsent
	outcome, err = engine.Reconcile(ctx, &spec)
	require.NoError(t, err)
	assert.Equal(t, types.ActionDelete, outcome.Action)
	assert.True(t, outcome.Changed)
	assert.False(t, outcome.AlreadyAbsent)
	t.Log("✓ Release deleted")

	t.Log("Step 4: Deleting the release a second time")
	outcome, err = engine.Reconcile(ctx, &spec)
	require.NoError(t, err)
	assert.Equal(t, types.ActionDelete, outcome.Action)
	assert.False(t, outcome.Changed)
	assert.True(t, outcome.AlreadyAbsent)
	t.Log("✓ Re-delete reported already absent without failing")

	t.Log("Step 5: Checking the journal")
	records, err := j.ByRelease("myapp", 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Equal(t, "v3.2.1", rec.HelmVersion)
		assert.Empty(t, rec.Error)
	}
	t.Log("✓ All four runs recorded")
}

// TestReconcileObservesDeployedRelease verifies that the engine reads the
// fake helm's list and values output through the real executor and leaves a
// matching release alone.
func TestReconcileObservesDeployedRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	helmPath := installFakeHelm(t)

	stateDir := os.Getenv("FAKE_HELM_STATE")
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "installed"), nil, 0644))

	engine, err := reconciler.NewEngine(reconciler.Config{BinaryPath: helmPath})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Log("Step 1: Listing releases through the engine")
	releases, err := engine.ListReleases(ctx)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "myapp", releases[0].Name)
	assert.Equal(t, "mychart-1.0.0", releases[0].ChartIdentity)
	t.Log("✓ Deployed release visible")

	t.Log("Step 2: Fetching its status with values")
	observed, err := engine.Status(ctx, "myapp")
	require.NoError(t, err)
	require.NotNil(t, observed)
	assert.Equal(t, map[string]interface{}{"replicas": 1}, observed.Values)
	t.Log("✓ Values round-tripped from the fake helm")
}
