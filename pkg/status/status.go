package status

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chartsync/chartsync/pkg/dialect"
	"github.com/chartsync/chartsync/pkg/helmcmd"
	"github.com/chartsync/chartsync/pkg/toolexec"
	"github.com/chartsync/chartsync/pkg/types"
)

// Query reads the actual state of releases from the helm binary. One
// Query serves one session: it captures the executor, the session
// command builder, and the probed dialect.
type Query struct {
	exec    toolexec.Executor
	builder *helmcmd.Builder
	dialect dialect.Dialect
}

// NewQuery creates a status query for a probed session
func NewQuery(exec toolexec.Executor, builder *helmcmd.Builder, d dialect.Dialect) *Query {
	return &Query{exec: exec, builder: builder, dialect: d}
}

// List returns every release the tool reports, without values
func (q *Query) List(ctx context.Context) ([]types.ObservedRelease, error) {
	argv := q.builder.List()

	res, err := q.exec.Run(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, &types.ToolExecutionError{
			Command:  strings.Join(argv, " "),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	releases, err := parseListing(res.Stdout, q.dialect)
	if err != nil {
		return nil, fmt.Errorf("parsing release listing: %w", err)
	}
	return releases, nil
}

// Observe locates the named release and enriches it with its
// currently-applied values. A missing release returns (nil, nil):
// absence is not an error at this layer. A failure during the values
// fetch is a hard error, since a partially-populated observation would
// corrupt the diff that follows.
func (q *Query) Observe(ctx context.Context, name string) (*types.ObservedRelease, error) {
	releases, err := q.List(ctx)
	if err != nil {
		return nil, err
	}

	var found *types.ObservedRelease
	for i := range releases {
		if releases[i].Name == name {
			found = &releases[i]
			break
		}
	}
	if found == nil {
		return nil, nil
	}

	values, err := q.fetchValues(ctx, name)
	if err != nil {
		return nil, err
	}
	found.Values = values
	return found, nil
}

func (q *Query) fetchValues(ctx context.Context, name string) (map[string]interface{}, error) {
	argv := q.builder.GetValues(name)

	res, err := q.exec.Run(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("fetching values for %q: %w", name, err)
	}
	if res.ExitCode != 0 {
		return nil, &types.ToolExecutionError{
			Command:  strings.Join(argv, " "),
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal([]byte(res.Stdout), &values); err != nil {
		return nil, fmt.Errorf("parsing values for %q: %w", name, err)
	}
	return values, nil
}

// legacyListing is the v2 list shape: a mapping with a Releases
// sequence and capitalized record keys.
type legacyListing struct {
	Next     string          `yaml:"Next"`
	Releases []legacyRelease `yaml:"Releases"`
}

type legacyRelease struct {
	Name       string `yaml:"Name"`
	Namespace  string `yaml:"Namespace"`
	Chart      string `yaml:"Chart"`
	Status     string `yaml:"Status"`
	Revision   int    `yaml:"Revision"`
	Updated    string `yaml:"Updated"`
	AppVersion string `yaml:"AppVersion"`
}

// modernRelease is one record of the v3 list shape: a bare sequence
// with lowercase keys and a string revision.
type modernRelease struct {
	Name       string `yaml:"name"`
	Namespace  string `yaml:"namespace"`
	Chart      string `yaml:"chart"`
	Status     string `yaml:"status"`
	Revision   string `yaml:"revision"`
	Updated    string `yaml:"updated"`
	AppVersion string `yaml:"app_version"`
}

func parseListing(out string, d dialect.Dialect) ([]types.ObservedRelease, error) {
	if strings.TrimSpace(out) == "" {
		return nil, nil
	}

	if d == dialect.Legacy {
		var listing legacyListing
		if err := yaml.Unmarshal([]byte(out), &listing); err != nil {
			return nil, err
		}
		releases := make([]types.ObservedRelease, 0, len(listing.Releases))
		for _, r := range listing.Releases {
			releases = append(releases, types.ObservedRelease{
				Name:          r.Name,
				Namespace:     r.Namespace,
				ChartIdentity: r.Chart,
				Status:        r.Status,
				Revision:      r.Revision,
				Updated:       r.Updated,
				AppVersion:    r.AppVersion,
			})
		}
		return releases, nil
	}

	var records []modernRelease
	if err := yaml.Unmarshal([]byte(out), &records); err != nil {
		return nil, err
	}
	releases := make([]types.ObservedRelease, 0, len(records))
	for _, r := range records {
		revision, _ := strconv.Atoi(r.Revision)
		releases = append(releases, types.ObservedRelease{
			Name:          r.Name,
			Namespace:     r.Namespace,
			ChartIdentity: r.Chart,
			Status:        r.Status,
			Revision:      revision,
			Updated:       r.Updated,
			AppVersion:    r.AppVersion,
		})
	}
	return releases, nil
}
