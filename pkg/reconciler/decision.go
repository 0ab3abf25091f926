package reconciler

import (
	"reflect"

	"github.com/chartsync/chartsync/pkg/types"
)

// Decision is the action chosen for a single release, with the reason
// it was chosen. Reasons are informational and end up in logs and
// events, never in control flow.
type Decision struct {
	Action types.Action
	Reason string
}

// Decide compares the desired spec against the observed release and
// picks the converging action. It issues no commands and has no side
// effects.
//
// Deletion is decided unconditionally when the desired state is
// absent: the delete command itself is idempotent, so there is no
// need to know whether the release exists first.
//
// An upgrade is decided only when both the values and the chart
// identity diverge. A values-only or chart-only drift leaves the
// release untouched.
func Decide(desired *types.ReleaseSpec, observed *types.ObservedRelease) (Decision, error) {
	if desired.State == types.StateAbsent {
		return Decision{Action: types.ActionDelete, Reason: "desired state is absent"}, nil
	}

	if observed == nil {
		return Decision{Action: types.ActionDeploy, Reason: "release not installed"}, nil
	}

	if observed.Namespace != desired.Namespace {
		return Decision{}, &types.ImmutableFieldError{
			Field:    "Target Namespace",
			Observed: observed.Namespace,
			Desired:  desired.Namespace,
		}
	}

	valuesDiffer := !reflect.DeepEqual(observed.Values, desired.Values)
	chartDiffers := observed.ChartIdentity != desired.ChartIdentity()

	if valuesDiffer && chartDiffers {
		return Decision{Action: types.ActionDeploy, Reason: "chart and values diverged"}, nil
	}

	return Decision{Action: types.ActionNone, Reason: "release up to date"}, nil
}
