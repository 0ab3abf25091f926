package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chartsync/chartsync/pkg/types"
)

// File is an on-disk release manifest. Two layouts are accepted: a
// document with a releases sequence, or a flat document describing a
// single release.
type File struct {
	BinaryPath string   `yaml:"binary_path"`
	Releases   []Params `yaml:"releases"`
}

// Load reads and parses a release manifest from disk
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading release file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse parses manifest bytes, falling back to the flat single
// release layout when no releases sequence is present.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Releases) > 0 {
		return &f, nil
	}

	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.ChartName == "" && firstOf(p.ReleaseName, p.Name) == "" {
		return nil, fmt.Errorf("no releases defined")
	}

	f.Releases = []Params{p}
	if f.BinaryPath == "" {
		f.BinaryPath = p.BinaryPath
	}
	return &f, nil
}

// Binary returns the manifest's binary override: the document-level
// path when set, otherwise the first release that names one.
func (f *File) Binary() string {
	if f.BinaryPath != "" {
		return f.BinaryPath
	}
	for i := range f.Releases {
		if f.Releases[i].BinaryPath != "" {
			return f.Releases[i].BinaryPath
		}
	}
	return ""
}

// Resolve validates every release in the manifest. The whole file is
// rejected on the first invalid release: partial application of a
// manifest is worse than no application.
func (f *File) Resolve() ([]*types.ReleaseSpec, error) {
	if len(f.Releases) == 0 {
		return nil, fmt.Errorf("no releases defined")
	}

	specs := make([]*types.ReleaseSpec, 0, len(f.Releases))
	for i := range f.Releases {
		spec, err := f.Releases[i].Resolve()
		if err != nil {
			return nil, fmt.Errorf("release %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
