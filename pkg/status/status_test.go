package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartsync/chartsync/pkg/dialect"
	"github.com/chartsync/chartsync/pkg/helmcmd"
	"github.com/chartsync/chartsync/pkg/toolexec"
	"github.com/chartsync/chartsync/pkg/types"
)

const legacyListOutput = `Next: ""
Releases:
- AppVersion: "1.0"
  Chart: mychart-1.2.3
  Name: myapp
  Namespace: default
  Revision: 2
  Status: DEPLOYED
  Updated: Mon Jul  1 10:00:00 2019
- AppVersion: "2.1"
  Chart: other-0.1.0
  Name: other
  Namespace: kube-system
  Revision: 1
  Status: DEPLOYED
  Updated: Mon Jul  1 11:00:00 2019
`

const modernListOutput = `- app_version: "1.0"
  chart: mychart-1.2.3
  name: myapp
  namespace: default
  revision: "2"
  status: deployed
  updated: 2020-06-15 10:00:00.000000 +0000 UTC
`

func newQuery(fake *toolexec.Fake, d dialect.Dialect) *Query {
	return NewQuery(fake, helmcmd.NewBuilder("helm"), d)
}

// TestParseLegacyListing tests the v2 mapping shape
func TestParseLegacyListing(t *testing.T) {
	releases, err := parseListing(legacyListOutput, dialect.Legacy)
	require.NoError(t, err)
	require.Len(t, releases, 2)

	assert.Equal(t, "myapp", releases[0].Name)
	assert.Equal(t, "default", releases[0].Namespace)
	assert.Equal(t, "mychart-1.2.3", releases[0].ChartIdentity)
	assert.Equal(t, "DEPLOYED", releases[0].Status)
	assert.Equal(t, 2, releases[0].Revision)
	assert.Equal(t, "other", releases[1].Name)
}

// TestParseModernListing tests the v3 bare sequence shape
func TestParseModernListing(t *testing.T) {
	releases, err := parseListing(modernListOutput, dialect.Modern)
	require.NoError(t, err)
	require.Len(t, releases, 1)

	assert.Equal(t, "myapp", releases[0].Name)
	assert.Equal(t, "mychart-1.2.3", releases[0].ChartIdentity)
	assert.Equal(t, "deployed", releases[0].Status)
	assert.Equal(t, 2, releases[0].Revision)
}

// TestParseEmptyListing tests that no output means no releases
func TestParseEmptyListing(t *testing.T) {
	for _, d := range []dialect.Dialect{dialect.Legacy, dialect.Modern} {
		releases, err := parseListing("", d)
		require.NoError(t, err)
		assert.Empty(t, releases)
	}
}

// TestParseMalformedListing tests that garbage output is a hard error
func TestParseMalformedListing(t *testing.T) {
	_, err := parseListing("{{{not yaml", dialect.Modern)
	assert.Error(t, err)
}

// TestObserveFound tests the list-then-values flow for a deployed release
func TestObserveFound(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 0, Stdout: legacyListOutput}).
		Expect(toolexec.Result{ExitCode: 0, Stdout: "replicas: 2\nimage: nginx\n"})

	observed, err := newQuery(fake, dialect.Legacy).Observe(context.Background(), "myapp")
	require.NoError(t, err)
	require.NotNil(t, observed)

	assert.Equal(t, "myapp", observed.Name)
	assert.Equal(t, "mychart-1.2.3", observed.ChartIdentity)
	assert.Equal(t, map[string]interface{}{"replicas": 2, "image": "nginx"}, observed.Values)

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []string{"helm", "list", "--output=yaml"}, fake.Calls[0])
	assert.Equal(t, []string{"helm", "get", "values", "--output=yaml", "myapp"}, fake.Calls[1])
}

// TestObserveAbsent tests that a missing release is not an error and
// triggers no values fetch
func TestObserveAbsent(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 0, Stdout: legacyListOutput})

	observed, err := newQuery(fake, dialect.Legacy).Observe(context.Background(), "nothere")
	require.NoError(t, err)
	assert.Nil(t, observed)
	assert.Len(t, fake.Calls, 1)
}

// TestObserveListFailure tests that a failed listing surfaces the command
func TestObserveListFailure(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 1, Stderr: "Error: could not find tiller"})

	_, err := newQuery(fake, dialect.Legacy).Observe(context.Background(), "myapp")
	require.Error(t, err)

	var toolErr *types.ToolExecutionError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "helm list --output=yaml", toolErr.Command)
	assert.Equal(t, 1, toolErr.ExitCode)
}

// TestObserveValuesFailure tests that a values fetch failure is hard,
// never a partial observation
func TestObserveValuesFailure(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 0, Stdout: legacyListOutput}).
		Expect(toolexec.Result{ExitCode: 1, Stderr: "Error: release: myapp not found"})

	observed, err := newQuery(fake, dialect.Legacy).Observe(context.Background(), "myapp")
	require.Error(t, err)
	assert.Nil(t, observed)

	var toolErr *types.ToolExecutionError
	assert.True(t, errors.As(err, &toolErr))
}

// TestObserveEmptyValues tests a release deployed with no overlay
func TestObserveEmptyValues(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 0, Stdout: modernListOutput}).
		Expect(toolexec.Result{ExitCode: 0, Stdout: "null\n"})

	observed, err := newQuery(fake, dialect.Modern).Observe(context.Background(), "myapp")
	require.NoError(t, err)
	require.NotNil(t, observed)
	assert.Nil(t, observed.Values)
}

// TestListSessionFlags tests that the session builder's connection
// flags reach the executor
func TestListSessionFlags(t *testing.T) {
	fake := toolexec.NewFake().
		Expect(toolexec.Result{ExitCode: 0, Stdout: ""})

	b := helmcmd.NewBuilder("helm").WithConnectionFlags(types.TillerConfig{Namespace: "default"})
	_, err := NewQuery(fake, b, dialect.Legacy).List(context.Background())
	require.NoError(t, err)

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{"helm", "--host=default", "list", "--output=yaml"}, fake.Calls[0])
}
