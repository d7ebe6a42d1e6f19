package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/emfactor/internal/factor"
)

const minimalDataset = `
manifest:
  name: test-set
  schema_version: "1.0.0"
factors:
  - activity: diesel
    region: India
    unit: litre
    value: 2.64
    source: MoEFCC
    vintage_year: 2023
    priority: 1
    quality_tier: authoritative_regulatory
`

func TestParse(t *testing.T) {
	ds, err := Parse([]byte(minimalDataset))
	require.NoError(t, err)

	assert.Equal(t, "test-set", ds.Manifest.Name)
	require.Len(t, ds.Factors, 1)
	assert.Equal(t, "diesel", ds.Factors[0].ActivityKey)
	assert.Equal(t, factor.TierAuthoritative, ds.Factors[0].QualityTier)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "factors: ["},
		{name: "missing manifest name", body: `
manifest:
  schema_version: "1.0.0"
factors:
  - activity: diesel
    region: India
    unit: litre
    value: 1
    source: X
    vintage_year: 2023
    priority: 1
`},
		{name: "missing schema version", body: `
manifest:
  name: no-schema
factors:
  - activity: diesel
    region: India
    unit: litre
    value: 1
    source: X
    vintage_year: 2023
    priority: 1
`},
		{name: "unsupported schema version", body: `
manifest:
  name: future-set
  schema_version: "2.0.0"
factors:
  - activity: diesel
    region: India
    unit: litre
    value: 1
    source: X
    vintage_year: 2023
    priority: 1
`},
		{name: "no factors", body: `
manifest:
  name: empty-set
  schema_version: "1.0.0"
factors: []
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
		})
	}
}

func TestSchemaMinorVersionsAccepted(t *testing.T) {
	body := `
manifest:
  name: newer-minor
  schema_version: "1.3.0"
factors:
  - activity: diesel
    region: India
    unit: litre
    value: 1
    source: X
    vintage_year: 2023
    priority: 1
`
	_, err := Parse([]byte(body))
	require.NoError(t, err)
}

func TestLoadDefault(t *testing.T) {
	ds, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "emfactor-core", ds.Manifest.Name)
	assert.Greater(t, len(ds.Factors), 20)

	// Every embedded record must survive store validation.
	store, err := ds.BuildStore()
	require.NoError(t, err)
	assert.Equal(t, len(ds.Factors), store.Len())

	// The contract scenario's anchor records exist.
	require.NotEmpty(t, store.LookupExact("diesel", "India", "litre"))
	require.NotEmpty(t, store.LookupExact("electricity", "India", "kwh"))
	require.NotEmpty(t, store.LookupExact("refrigerant_leak", "Global", "kg"))
}

func TestLoadFilesMerges(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.yaml")

	require.NoError(t, os.WriteFile(first, []byte(minimalDataset), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`
manifest:
  name: extra-set
  schema_version: "1.0.0"
proxies:
  boiler_: natural_gas
factors:
  - activity: natural_gas
    region: India
    unit: cubic_metre
    value: 1.89
    source: MoPNG
    vintage_year: 2023
    priority: 1
    quality_tier: authoritative_regulatory
`), 0o600))

	ds, err := LoadFiles([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, "test-set+extra-set", ds.Manifest.Name)
	assert.Len(t, ds.Factors, 2)
	assert.Equal(t, "natural_gas", ds.Proxies["boiler_"])
}

func TestLoadFilesMissingFile(t *testing.T) {
	_, err := LoadFiles([]string{filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
}

func TestLoadFilesEmptyFallsBackToDefault(t *testing.T) {
	ds, err := LoadFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, "emfactor-core", ds.Manifest.Name)
}

func TestBuildStoreRejectsBadRecord(t *testing.T) {
	ds, err := Parse([]byte(minimalDataset))
	require.NoError(t, err)
	ds.Factors[0].Value = -1

	_, err = ds.BuildStore()
	require.ErrorIs(t, err, factor.ErrNegativeValue)
}
