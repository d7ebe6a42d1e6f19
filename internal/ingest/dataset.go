// Package ingest loads reference factor datasets into the factor store.
//
// Datasets are YAML files carrying a manifest, optional category proxy
// extensions and the factor records themselves. The engine is agnostic to
// where the files come from; anything that yields the record shape can feed
// the store. A default dataset is embedded so the engine works out of the
// box.
package ingest

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/greenledger/emfactor/internal/factor"
)

// SchemaConstraint is the dataset schema range this build understands.
// Datasets declaring an incompatible schema_version are rejected at load
// time rather than misread at query time.
const SchemaConstraint = "^1.0"

//go:embed data/default.yaml
var defaultDataset []byte

// Manifest describes a dataset file.
type Manifest struct {
	// Name identifies the dataset, e.g. "india-core".
	Name string `yaml:"name"`

	// SchemaVersion declares which record schema the file uses.
	SchemaVersion string `yaml:"schema_version"`

	// Description is free-form provenance text.
	Description string `yaml:"description"`
}

// Dataset is one parsed dataset file, or several merged in order.
type Dataset struct {
	Manifest Manifest `yaml:"manifest"`

	// Proxies extends the resolver's category proxy prefix table.
	Proxies map[string]string `yaml:"proxies"`

	// Factors are the reference records.
	Factors []factor.Record `yaml:"factors"`
}

// Parse decodes and schema-checks a single dataset document.
func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	if strings.TrimSpace(ds.Manifest.Name) == "" {
		return nil, fmt.Errorf("dataset manifest has no name")
	}
	if err := checkSchema(ds.Manifest); err != nil {
		return nil, err
	}
	if len(ds.Factors) == 0 {
		return nil, fmt.Errorf("dataset %q has no factors", ds.Manifest.Name)
	}
	return &ds, nil
}

// checkSchema rejects datasets outside the supported schema range.
func checkSchema(m Manifest) error {
	if strings.TrimSpace(m.SchemaVersion) == "" {
		return fmt.Errorf("dataset %q declares no schema_version", m.Name)
	}
	version, err := semver.NewVersion(m.SchemaVersion)
	if err != nil {
		return fmt.Errorf("dataset %q: invalid schema_version %q: %w", m.Name, m.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("parse schema constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("dataset %q: schema_version %s is outside supported range %s",
			m.Name, version, SchemaConstraint)
	}
	return nil
}

// LoadFiles reads and merges dataset files in order. Later files contribute
// additional records and proxy entries; they never remove earlier ones.
func LoadFiles(paths []string) (*Dataset, error) {
	if len(paths) == 0 {
		return LoadDefault()
	}

	merged := &Dataset{Proxies: make(map[string]string)}
	var names []string

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", path, err)
		}
		ds, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}

		names = append(names, ds.Manifest.Name)
		merged.Factors = append(merged.Factors, ds.Factors...)
		for prefix, category := range ds.Proxies {
			merged.Proxies[prefix] = category
		}
	}

	merged.Manifest = Manifest{
		Name:          strings.Join(names, "+"),
		SchemaVersion: "1.0.0",
	}
	return merged, nil
}

// LoadDefault parses the embedded dataset.
func LoadDefault() (*Dataset, error) {
	return Parse(defaultDataset)
}

// BuildStore validates the merged records and indexes them.
func (d *Dataset) BuildStore() (*factor.Store, error) {
	store, err := factor.NewStore(d.Factors)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", d.Manifest.Name, err)
	}
	return store, nil
}
