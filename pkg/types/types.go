package types

import "time"

// ReleaseState declares whether a release should exist
type ReleaseState string

const (
	StatePresent ReleaseState = "present"
	StateAbsent  ReleaseState = "absent"
)

// RepoConfig identifies the chart repository a release installs from
type RepoConfig struct {
	URL      string
	Username string
	Password string
}

// TillerConfig carries the connection settings the legacy (v2) client
// needs to reach its in-cluster tiller
type TillerConfig struct {
	Host      string
	Namespace string
}

// ReleaseSpec is the desired state of a single release. It is built
// once per reconciliation run and read-only afterwards.
type ReleaseSpec struct {
	Name         string
	Namespace    string
	State        ReleaseState
	ChartName    string
	ChartVersion string
	Values       map[string]interface{}
	Repo         RepoConfig
	Tiller       TillerConfig
}

// ChartIdentity returns the chart reference the way the tool reports
// it in listings, e.g. "mychart-1.2.3"
func (s *ReleaseSpec) ChartIdentity() string {
	return s.ChartName + "-" + s.ChartVersion
}

// ObservedRelease is the actual state of a deployed release as
// reported by the tool. Values is populated only when the release
// exists; it is never guessed or defaulted.
type ObservedRelease struct {
	Name          string                 `json:"name" yaml:"name"`
	Namespace     string                 `json:"namespace" yaml:"namespace"`
	ChartIdentity string                 `json:"chart" yaml:"chart"`
	Status        string                 `json:"status" yaml:"status"`
	Revision      int                    `json:"revision" yaml:"revision"`
	Updated       string                 `json:"updated,omitempty" yaml:"updated,omitempty"`
	AppVersion    string                 `json:"app_version,omitempty" yaml:"app_version,omitempty"`
	Values        map[string]interface{} `json:"values,omitempty" yaml:"values,omitempty"`
}

// Action is the mutation chosen for a reconciliation run
type Action string

const (
	ActionNone   Action = "none"
	ActionDeploy Action = "deploy"
	ActionDelete Action = "delete"
)

// Outcome is the terminal result of one successful reconciliation run.
// Failures are reported as errors, not outcomes.
type Outcome struct {
	Release       string        `json:"release"`
	Namespace     string        `json:"namespace"`
	Action        Action        `json:"action"`
	Changed       bool          `json:"changed"`
	AlreadyAbsent bool          `json:"already_absent,omitempty"`
	Stdout        string        `json:"stdout,omitempty"`
	Stderr        string        `json:"stderr,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}
