// Package units converts activity quantities between measurement units.
//
// Conversions are linear and only permitted within a single physical
// dimension (mass, volume, energy, distance, or the compound freight and
// passenger transport dimensions). Cross-dimension requests are rejected
// rather than guessed: converting litres of fuel to kilograms would require
// a density assumption this package refuses to make.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Dimension identifies the physical dimension of a unit.
type Dimension int

const (
	// DimensionMass covers weight units normalized to kilograms.
	DimensionMass Dimension = iota

	// DimensionVolume covers liquid volume units normalized to litres.
	DimensionVolume

	// DimensionEnergy covers energy units normalized to kilowatt-hours.
	DimensionEnergy

	// DimensionDistance covers travel distance units normalized to kilometres.
	DimensionDistance

	// DimensionFreight covers freight transport work normalized to tonne-kilometres.
	DimensionFreight

	// DimensionPassenger covers passenger transport work normalized to passenger-kilometres.
	DimensionPassenger
)

// String returns a human-readable representation of the Dimension.
func (d Dimension) String() string {
	switch d {
	case DimensionMass:
		return "mass"
	case DimensionVolume:
		return "volume"
	case DimensionEnergy:
		return "energy"
	case DimensionDistance:
		return "distance"
	case DimensionFreight:
		return "freight"
	case DimensionPassenger:
		return "passenger"
	default:
		return fmt.Sprintf("Dimension(%d)", d)
	}
}

// unitInfo describes one entry in the conversion table.
type unitInfo struct {
	// Canonical is the canonical spelling of the unit.
	Canonical string

	// Dimension is the unit's physical dimension.
	Dimension Dimension

	// ToBase is the multiplier converting one unit to the dimension's base
	// unit (kg, litre, kWh, km, tonne-km, passenger-km).
	ToBase float64
}

// unitTable maps canonical unit names to their conversion metadata.
// All factors are exact definitions or standard reference values.
var unitTable = map[string]unitInfo{
	// Mass, base kilogram.
	"gram":     {Canonical: "gram", Dimension: DimensionMass, ToBase: 0.001},
	"kilogram": {Canonical: "kilogram", Dimension: DimensionMass, ToBase: 1.0},
	"tonne":    {Canonical: "tonne", Dimension: DimensionMass, ToBase: 1000.0},
	"pound":    {Canonical: "pound", Dimension: DimensionMass, ToBase: 0.453592},

	// Volume, base litre.
	"millilitre":  {Canonical: "millilitre", Dimension: DimensionVolume, ToBase: 0.001},
	"litre":       {Canonical: "litre", Dimension: DimensionVolume, ToBase: 1.0},
	"gallon":      {Canonical: "gallon", Dimension: DimensionVolume, ToBase: 3.785411784},
	"cubic_metre": {Canonical: "cubic_metre", Dimension: DimensionVolume, ToBase: 1000.0},

	// Energy, base kilowatt-hour.
	"wh":    {Canonical: "wh", Dimension: DimensionEnergy, ToBase: 0.001},
	"kwh":   {Canonical: "kwh", Dimension: DimensionEnergy, ToBase: 1.0},
	"mwh":   {Canonical: "mwh", Dimension: DimensionEnergy, ToBase: 1000.0},
	"gwh":   {Canonical: "gwh", Dimension: DimensionEnergy, ToBase: 1_000_000.0},
	"mj":    {Canonical: "mj", Dimension: DimensionEnergy, ToBase: 0.2777778},
	"gj":    {Canonical: "gj", Dimension: DimensionEnergy, ToBase: 277.7778},
	"therm": {Canonical: "therm", Dimension: DimensionEnergy, ToBase: 29.3071},

	// Distance, base kilometre.
	"metre":     {Canonical: "metre", Dimension: DimensionDistance, ToBase: 0.001},
	"kilometre": {Canonical: "kilometre", Dimension: DimensionDistance, ToBase: 1.0},
	"mile":      {Canonical: "mile", Dimension: DimensionDistance, ToBase: 1.609344},

	// Freight transport work, base tonne-kilometre.
	"tonne_km":   {Canonical: "tonne_km", Dimension: DimensionFreight, ToBase: 1.0},
	"tonne_mile": {Canonical: "tonne_mile", Dimension: DimensionFreight, ToBase: 1.609344},
	"kg_km":      {Canonical: "kg_km", Dimension: DimensionFreight, ToBase: 0.001},

	// Passenger transport work, base passenger-kilometre.
	"passenger_km":   {Canonical: "passenger_km", Dimension: DimensionPassenger, ToBase: 1.0},
	"passenger_mile": {Canonical: "passenger_mile", Dimension: DimensionPassenger, ToBase: 1.609344},
}

// unitAliases folds the spellings seen in extracted documents onto canonical
// table keys. Lookup happens after lowercasing and whitespace folding.
var unitAliases = map[string]string{
	"g": "gram", "gm": "gram", "grams": "gram",
	"kg": "kilogram", "kgs": "kilogram", "kilograms": "kilogram", "kilo": "kilogram",
	"t": "tonne", "ton": "tonne", "tonnes": "tonne", "tons": "tonne", "mt": "tonne", "metric_ton": "tonne",
	"lb": "pound", "lbs": "pound", "pounds": "pound",

	"ml": "millilitre", "millilitres": "millilitre", "milliliter": "millilitre", "milliliters": "millilitre",
	"l": "litre", "ltr": "litre", "litres": "litre", "liter": "litre", "liters": "litre",
	"gal": "gallon", "gallons": "gallon",
	"m3": "cubic_metre", "cbm": "cubic_metre", "cubic_meter": "cubic_metre", "cubic_metres": "cubic_metre",

	"watt_hour": "wh", "kilowatt_hour": "kwh", "kilowatt_hours": "kwh", "units": "kwh", "unit": "kwh",
	"megawatt_hour": "mwh", "gigawatt_hour": "gwh",
	"megajoule": "mj", "megajoules": "mj", "gigajoule": "gj", "gigajoules": "gj", "therms": "therm",

	"m": "metre", "meter": "metre", "metres": "metre", "meters": "metre",
	"km": "kilometre", "kms": "kilometre", "kilometer": "kilometre", "kilometers": "kilometre", "kilometres": "kilometre",
	"mi": "mile", "miles": "mile",

	"tkm": "tonne_km", "tonne_kilometre": "tonne_km", "ton_km": "tonne_km", "tonne_kms": "tonne_km",
	"tonne_miles": "tonne_mile",
	"pkm":         "passenger_km", "passenger_kilometre": "passenger_km", "pax_km": "passenger_km",
	"passenger_miles": "passenger_mile", "pax_mile": "passenger_mile",
}

// Normalize folds a caller-supplied unit spelling onto its canonical form.
// It reports false when the unit is not recognized.
func Normalize(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_", ".", "").Replace(key)
	if key == "" {
		return "", false
	}

	if alias, ok := unitAliases[key]; ok {
		key = alias
	}

	info, ok := unitTable[key]
	if !ok {
		return "", false
	}
	return info.Canonical, true
}

// DimensionOf returns the physical dimension a unit belongs to.
func DimensionOf(unit string) (Dimension, error) {
	canonical, ok := Normalize(unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return unitTable[canonical].Dimension, nil
}

// SameDimension reports whether two units belong to the same physical
// dimension and are therefore convertible. Unknown units never match.
func SameDimension(unitA, unitB string) bool {
	dimA, errA := DimensionOf(unitA)
	dimB, errB := DimensionOf(unitB)
	return errA == nil && errB == nil && dimA == dimB
}

// Convert converts a quantity from one unit to another within the same
// dimension.
//
// It returns ErrUnknownUnit when either unit is unrecognized,
// ErrUnconvertible when the units belong to different dimensions, and
// ErrNotFinite when the quantity is NaN or infinite before or after the
// conversion. Every successful conversion round-trips to within floating
// point tolerance.
func Convert(quantity float64, fromUnit, toUnit string) (float64, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, ErrNotFinite
	}

	from, ok := Normalize(fromUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, fromUnit)
	}
	to, ok := Normalize(toUnit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, toUnit)
	}

	fromInfo := unitTable[from]
	toInfo := unitTable[to]
	if fromInfo.Dimension != toInfo.Dimension {
		return 0, fmt.Errorf("%w: %s (%s) vs %s (%s)",
			ErrUnconvertible, from, fromInfo.Dimension, to, toInfo.Dimension)
	}

	result := quantity * fromInfo.ToBase / toInfo.ToBase
	if math.IsInf(result, 0) {
		return 0, ErrNotFinite
	}
	return result, nil
}

// Known reports whether a unit spelling is present in the conversion table.
func Known(unit string) bool {
	_, ok := Normalize(unit)
	return ok
}

// All returns the canonical names of every supported unit, for suggestion
// messages and table-completeness tests. Order is unspecified.
func All() []string {
	names := make([]string, 0, len(unitTable))
	for name := range unitTable {
		names = append(names, name)
	}
	return names
}
