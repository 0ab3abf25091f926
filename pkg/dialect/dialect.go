package dialect

import (
	"context"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/chartsync/chartsync/pkg/helmcmd"
	"github.com/chartsync/chartsync/pkg/log"
	"github.com/chartsync/chartsync/pkg/toolexec"
	"github.com/chartsync/chartsync/pkg/types"
)

// Dialect selects the flag and connection conventions of a helm major
// version. It is derived exactly once per reconciliation session.
type Dialect int

const (
	// Modern covers helm v3 and anything newer
	Modern Dialect = iota
	// Legacy covers helm v2, which talks to an in-cluster tiller
	Legacy
)

func (d Dialect) String() string {
	if d == Legacy {
		return "legacy"
	}
	return "modern"
}

// FromVersion classifies a probed version string. The function is
// total: a string that does not parse as a semantic version classifies
// as Modern rather than failing.
func FromVersion(version string) Dialect {
	v, err := semver.ParseTolerant(strings.TrimSpace(version))
	if err != nil {
		logger := log.WithComponent("dialect")
		logger.Warn().
			Str("version", version).
			Msg("Version does not parse as semver, selecting modern dialect")
		return Modern
	}
	if v.Major == 2 {
		return Legacy
	}
	return Modern
}

// Probe asks the helm client for its version and classifies the
// dialect for the rest of the session. The raw version string is
// returned alongside for logging and display.
func Probe(ctx context.Context, exec toolexec.Executor, builder *helmcmd.Builder) (Dialect, string, error) {
	argv := builder.Version()

	res, err := exec.Run(ctx, argv)
	if err != nil {
		return Modern, "", fmt.Errorf("probing helm version: %w", err)
	}
	if res.ExitCode != 0 {
		return Modern, "", &types.ToolExecutionError{
			Command:  strings.Join(argv, " "),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	version := strings.TrimSpace(res.Stdout)
	return FromVersion(version), version, nil
}
