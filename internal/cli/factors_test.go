package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorsListCommand(t *testing.T) {
	out, err := execute(t, "factors", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ACTIVITY")
	assert.Contains(t, out, "diesel")
	assert.Contains(t, out, "electricity")
}

func TestFactorsListFiltered(t *testing.T) {
	out, err := execute(t, "factors", "list", "--activity", "Diesel", "--region", "india")
	require.NoError(t, err)

	assert.Contains(t, out, "diesel")
	assert.Contains(t, out, "MoEFCC")
	assert.NotContains(t, out, "electricity")
}

func TestFactorsListNoMatches(t *testing.T) {
	out, err := execute(t, "factors", "list", "--activity", "unicorn rides")
	require.NoError(t, err)
	assert.Contains(t, out, "no matching factors")
}

func TestFactorsValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest:
  name: custom-set
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
`), 0o600))

	out, err := execute(t, "factors", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: custom-set")
	assert.Contains(t, out, "1 records")
}

func TestFactorsValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest:
  name: bad-set
  schema_version: "1.0.0"
factors:
  - activity: diesel
    region: India
    unit: litre
    value: -5
    source: MoEFCC
    vintage_year: 2023
    priority: 1
`), 0o600))

	_, err := execute(t, "factors", "validate", path)
	require.Error(t, err)
}

func TestDatasetFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest:
  name: only-set
  schema_version: "1.0.0"
factors:
  - activity: biochar
    region: Global
    unit: kilogram
    value: 0.12
    source: TestLab
    vintage_year: 2025
    priority: 1
    quality_tier: industry_framework
`), 0o600))

	out, err := execute(t, "factors", "list", "--dataset", path)
	require.NoError(t, err)
	assert.Contains(t, out, "biochar")
	assert.NotContains(t, out, "diesel")
}
