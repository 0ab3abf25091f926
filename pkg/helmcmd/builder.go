package helmcmd

import (
	"github.com/chartsync/chartsync/pkg/types"
)

// Builder assembles helm argument vectors for one reconciliation
// session. The base vector carries the binary path and, on the legacy
// dialect, the tiller connection flags that prefix every subcommand.
// Builders never execute anything and never fail: validation happens
// upstream on the typed inputs.
type Builder struct {
	base []string
}

// NewBuilder creates a builder around the resolved binary path
func NewBuilder(binary string) *Builder {
	return &Builder{base: []string{binary}}
}

// WithConnectionFlags returns a new builder whose base vector carries
// the legacy tiller connection flag. When a tiller host is set the
// client is pointed at the tiller namespace; otherwise the namespace is
// passed through the host flag as a scoping fallback. The flag is added
// exactly once, ahead of any subcommand.
func (b *Builder) WithConnectionFlags(tiller types.TillerConfig) *Builder {
	base := make([]string, len(b.base), len(b.base)+1)
	copy(base, b.base)
	if tiller.Host != "" {
		base = append(base, "--tiller-namespace="+tiller.Namespace)
	} else {
		base = append(base, "--host="+tiller.Namespace)
	}
	return &Builder{base: base}
}

// Version builds the client version probe
func (b *Builder) Version() []string {
	return b.argv("version", "--client", "--template", "{{ .Client.SemVer }}")
}

// List builds the release listing command
func (b *Builder) List() []string {
	return b.argv("list", "--output=yaml")
}

// GetValues builds the values fetch for a deployed release
func (b *Builder) GetValues(release string) []string {
	return b.argv("get", "values", "--output=yaml", release)
}

// Deploy builds the install-or-upgrade command for a desired release.
// valuesFile is the path of a materialized values overlay; empty means
// no overlay flag is added.
func (b *Builder) Deploy(spec *types.ReleaseSpec, valuesFile string) []string {
	args := b.argv("upgrade", "-i")

	if spec.ChartVersion != "" {
		args = append(args, "--version="+spec.ChartVersion)
	}

	if spec.Repo.URL != "" {
		args = append(args, "--repo="+spec.Repo.URL)
		if spec.Repo.Username != "" && spec.Repo.Password != "" {
			args = append(args, "--username="+spec.Repo.Username)
			args = append(args, "--password="+spec.Repo.Password)
		}
	}

	if valuesFile != "" {
		args = append(args, "-f="+valuesFile)
	}

	args = append(args, "--namespace="+spec.Namespace)
	args = append(args, spec.Name, spec.ChartName)
	return args
}

// Delete builds the release removal command
func (b *Builder) Delete(release string, purge bool) []string {
	args := b.argv("delete")
	if purge {
		args = append(args, "--purge")
	}
	return append(args, release)
}

func (b *Builder) argv(sub ...string) []string {
	args := make([]string, 0, len(b.base)+len(sub)+8)
	args = append(args, b.base...)
	return append(args, sub...)
}
