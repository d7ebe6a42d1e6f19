package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greenledger/emfactor/internal/resolver"
)

func TestFormatKg(t *testing.T) {
	tests := []struct {
		name string
		kg   float64
		want string
	}{
		{name: "large with separator", kg: 12345.678, want: "12,345.7"},
		{name: "mid range", kg: 264.0, want: "264.00"},
		{name: "sub kilogram", kg: 0.00042, want: "0.0004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatKg(tt.kg))
		})
	}
}

func TestConfidenceLabel(t *testing.T) {
	assert.Equal(t, "high", confidenceLabel(0.92))
	assert.Equal(t, "medium", confidenceLabel(0.74))
	assert.Equal(t, "low", confidenceLabel(0.26))
	assert.Equal(t, "none", confidenceLabel(0))
}

func TestRenderResultFailure(t *testing.T) {
	result := &resolver.Result{
		Layer: resolver.LayerFailed,
		Failure: &resolver.Failure{
			Error:      "no factor found for activity \"unobtainium\"",
			Suggestion: "check the activity name against `emfactor factors list`",
		},
	}

	out := renderResult(result, false)
	assert.Contains(t, out, "Resolution failed")
	assert.Contains(t, out, "unobtainium")
	assert.Contains(t, out, "factors list")
	assert.NotContains(t, out, "\x1b[", "unstyled output must carry no ANSI sequences")
}

func TestRenderFactorTableAlignment(t *testing.T) {
	rows := [][]string{
		{"ACTIVITY", "VALUE"},
		{"diesel", "2.64"},
		{"electricity_grid", "0.82"},
	}

	out := renderFactorTable(rows, false)
	assert.Contains(t, out, "ACTIVITY          VALUE")
	assert.Contains(t, out, "diesel            2.64")
	assert.Contains(t, out, "electricity_grid  0.82")
}

func TestFormatFactorValue(t *testing.T) {
	assert.Equal(t, "2.64", formatFactorValue(2.64))
	assert.Equal(t, "1,430", formatFactorValue(1430))
	assert.Equal(t, "3", formatFactorValue(3))
	assert.Equal(t, "0.001", formatFactorValue(0.001))
}
