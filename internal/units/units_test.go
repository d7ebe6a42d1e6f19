package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		from     string
		to       string
		want     float64
		wantErr  error
	}{
		{name: "tonne to kilogram", quantity: 2.5, from: "tonne", to: "kg", want: 2500.0},
		{name: "kilogram to tonne", quantity: 500, from: "kg", to: "t", want: 0.5},
		{name: "gram to kilogram", quantity: 1500, from: "g", to: "kg", want: 1.5},
		{name: "pound to kilogram", quantity: 10, from: "lb", to: "kg", want: 4.53592},
		{name: "litre to gallon", quantity: 3.785411784, from: "litre", to: "gallon", want: 1.0},
		{name: "cubic metre to litre", quantity: 2, from: "m3", to: "l", want: 2000.0},
		{name: "mwh to kwh", quantity: 1.2, from: "MWh", to: "kWh", want: 1200.0},
		{name: "gj to kwh", quantity: 1, from: "GJ", to: "kWh", want: 277.7778},
		{name: "mile to kilometre", quantity: 100, from: "miles", to: "km", want: 160.9344},
		{name: "tonne mile to tonne km", quantity: 10, from: "tonne-mile", to: "tkm", want: 16.09344},
		{name: "passenger mile to passenger km", quantity: 5, from: "passenger miles", to: "pkm", want: 8.04672},
		{name: "identity", quantity: 42, from: "litre", to: "litres", want: 42},
		{name: "litre to kilogram rejected", quantity: 10, from: "litre", to: "kg", wantErr: ErrUnconvertible},
		{name: "kwh to km rejected", quantity: 10, from: "kwh", to: "km", wantErr: ErrUnconvertible},
		{name: "unknown source unit", quantity: 1, from: "fathoms", to: "km", wantErr: ErrUnknownUnit},
		{name: "unknown target unit", quantity: 1, from: "km", to: "parsecs", wantErr: ErrUnknownUnit},
		{name: "nan quantity", quantity: math.NaN(), from: "kg", to: "t", wantErr: ErrNotFinite},
		{name: "infinite quantity", quantity: math.Inf(1), from: "kg", to: "t", wantErr: ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.quantity, tt.from, tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9*math.Max(1, math.Abs(tt.want)))
		})
	}
}

// Every supported unit pair in the same dimension must convert there and back
// without drift beyond floating point tolerance.
func TestConvertRoundTrip(t *testing.T) {
	quantities := []float64{0.001, 1, 2.64, 1000, 123456.789}

	for _, from := range All() {
		for _, to := range All() {
			if !SameDimension(from, to) {
				continue
			}
			for _, x := range quantities {
				forward, err := Convert(x, from, to)
				require.NoError(t, err, "convert %s -> %s", from, to)

				back, err := Convert(forward, to, from)
				require.NoError(t, err, "convert %s -> %s", to, from)

				assert.InEpsilon(t, x, back, 1e-9, "round trip %s -> %s -> %s", from, to, from)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "Litres", want: "litre", ok: true},
		{raw: " KWH ", want: "kwh", ok: true},
		{raw: "Tonne-KM", want: "tonne_km", ok: true},
		{raw: "metric ton", want: "tonne", ok: true},
		{raw: "pax km", want: "passenger_km", ok: true},
		{raw: "furlong", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSameDimension(t *testing.T) {
	assert.True(t, SameDimension("litre", "gallon"))
	assert.True(t, SameDimension("kg", "tonne"))
	assert.True(t, SameDimension("tkm", "tonne mile"))
	assert.False(t, SameDimension("litre", "kg"))
	assert.False(t, SameDimension("km", "tonne_km"))
	assert.False(t, SameDimension("litre", "no-such-unit"))
}

func TestDimensionOf(t *testing.T) {
	dim, err := DimensionOf("therms")
	require.NoError(t, err)
	assert.Equal(t, DimensionEnergy, dim)

	_, err = DimensionOf("cubits")
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestDimensionString(t *testing.T) {
	assert.Equal(t, "mass", DimensionMass.String())
	assert.Equal(t, "freight", DimensionFreight.String())
	assert.Equal(t, "Dimension(99)", Dimension(99).String())
}
