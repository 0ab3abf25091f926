package params

import (
	"fmt"

	"github.com/chartsync/chartsync/pkg/types"
)

// Params is one release's declarative configuration as operators
// write it. Several keys have a long and a short form; Resolve merges
// them, with the long form winning when both are set.
type Params struct {
	BinaryPath string `yaml:"binary_path" json:"binary_path,omitempty"`

	ChartName    string `yaml:"chart_name" json:"chart_name"`
	ChartVersion string `yaml:"chart_version" json:"chart_version,omitempty"`

	ReleaseName string `yaml:"release_name" json:"release_name,omitempty"`
	Name        string `yaml:"name" json:"name,omitempty"`

	ReleaseNamespace string `yaml:"release_namespace" json:"release_namespace,omitempty"`
	Namespace        string `yaml:"namespace" json:"namespace,omitempty"`

	ReleaseState string `yaml:"release_state" json:"release_state,omitempty"`
	State        string `yaml:"state" json:"state,omitempty"`

	ReleaseValues map[string]interface{} `yaml:"release_values" json:"release_values,omitempty"`
	Values        map[string]interface{} `yaml:"values" json:"values,omitempty"`

	RepoURL      string `yaml:"repo_url" json:"repo_url"`
	RepoUsername string `yaml:"repo_username" json:"repo_username,omitempty"`
	RepoPassword string `yaml:"repo_password" json:"repo_password,omitempty"`

	TillerHost      string `yaml:"tiller_host" json:"tiller_host,omitempty"`
	TillerNamespace string `yaml:"tiller_namespace" json:"tiller_namespace,omitempty"`
}

// Resolve validates the parameters, applies defaults, and produces
// the immutable spec the engine reconciles against.
func (p *Params) Resolve() (*types.ReleaseSpec, error) {
	name := firstOf(p.ReleaseName, p.Name)
	if name == "" {
		return nil, fmt.Errorf("release_name is required")
	}
	if p.ChartName == "" {
		return nil, fmt.Errorf("chart_name is required")
	}
	if p.RepoURL == "" {
		return nil, fmt.Errorf("repo_url is required")
	}

	state := types.ReleaseState(firstOf(p.ReleaseState, p.State, string(types.StatePresent)))
	if state != types.StatePresent && state != types.StateAbsent {
		return nil, fmt.Errorf("release_state must be %q or %q, got %q",
			types.StatePresent, types.StateAbsent, state)
	}

	// An unset values mapping defaults to empty, which is distinct
	// from absent values on a deployed release.
	values := p.ReleaseValues
	if values == nil {
		values = p.Values
	}
	if values == nil {
		values = map[string]interface{}{}
	}

	return &types.ReleaseSpec{
		Name:         name,
		Namespace:    firstOf(p.ReleaseNamespace, p.Namespace, "default"),
		State:        state,
		ChartName:    p.ChartName,
		ChartVersion: p.ChartVersion,
		Values:       values,
		Repo: types.RepoConfig{
			URL:      p.RepoURL,
			Username: p.RepoUsername,
			Password: p.RepoPassword,
		},
		Tiller: types.TillerConfig{
			Host:      p.TillerHost,
			Namespace: firstOf(p.TillerNamespace, "default"),
		},
	}, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
