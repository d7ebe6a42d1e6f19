package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/emfactor/internal/resolver"
)

// execute runs the root command with args against a missing config file so
// only defaults and the embedded dataset apply.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	hermetic := []string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}
	root.SetArgs(append(hermetic, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "resolve", "diesel", "100", "litre", "--region", "India")
	require.NoError(t, err)

	assert.Contains(t, out, "264.00 kg CO2e")
	assert.Contains(t, out, "MoEFCC")
	assert.Contains(t, out, "exact")
}

func TestResolveCommandJSON(t *testing.T) {
	out, err := execute(t, "resolve", "diesel", "100", "litre", "--region", "India", "--json")
	require.NoError(t, err)

	var result resolver.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.InDelta(t, 264.0, result.CO2eKg, 1e-9)
	assert.Equal(t, resolver.LayerExact, result.Layer)
	assert.Equal(t, "MoEFCC", result.Source)
	require.NotEmpty(t, result.Alternatives)
}

func TestResolveCommandUnitAlias(t *testing.T) {
	out, err := execute(t, "resolve", "electricity", "250", "units", "--region", "India")
	require.NoError(t, err)
	assert.Contains(t, out, "205.00 kg CO2e")
	assert.Contains(t, out, "CEA")
}

func TestResolveCommandFailureExitsNonZero(t *testing.T) {
	out, err := execute(t, "resolve", "quantum flux capacitor", "1", "kg")
	require.Error(t, err)
	assert.Contains(t, out, "Resolution failed")
	assert.Contains(t, out, "Suggestion")
}

func TestResolveCommandRejectsBadQuantity(t *testing.T) {
	_, err := execute(t, "resolve", "diesel", "lots", "litre")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestResolveCommandArgCount(t *testing.T) {
	_, err := execute(t, "resolve", "diesel", "100")
	require.Error(t, err)
}
