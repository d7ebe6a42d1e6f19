// Package factor defines emission factor records and the in-memory store
// that indexes them for resolution.
//
// The reference dataset is multi-sourced: national regulators, industry
// frameworks and generic global databases all contribute records for the
// same activities. Each record therefore carries its provenance, a vintage
// year and an explicit tie-break priority so that resolution is
// deterministic no matter how the dataset was assembled.
package factor

import (
	"fmt"
	"math"
	"strings"

	"github.com/greenledger/emfactor/internal/units"
)

// GlobalRegion is the distinguished region acting as the universal fallback
// when no region-specific record exists.
const GlobalRegion = "Global"

// breakdownTolerance is the maximum relative deviation allowed between a gas
// breakdown's sum and the record's total value.
const breakdownTolerance = 1e-6

// QualityTier is a coarse confidence label derived from a record's source
// type. Higher values indicate more trustworthy provenance.
type QualityTier int

const (
	// TierUnknown is the zero value for records with no declared tier.
	TierUnknown QualityTier = iota

	// TierGenericGlobal marks factors from generic global databases.
	TierGenericGlobal

	// TierIndustryFramework marks factors from industry frameworks such as
	// the GHG Protocol cross-sector tables.
	TierIndustryFramework

	// TierAuthoritative marks factors published by national or regulatory
	// authorities for their own jurisdiction.
	TierAuthoritative
)

// String returns a human-readable representation of the QualityTier.
func (q QualityTier) String() string {
	switch q {
	case TierAuthoritative:
		return "authoritative_regulatory"
	case TierIndustryFramework:
		return "industry_framework"
	case TierGenericGlobal:
		return "generic_global"
	case TierUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("QualityTier(%d)", int(q))
	}
}

// ParseQualityTier maps a tier label to its QualityTier. Unrecognized labels
// map to TierUnknown.
func ParseQualityTier(label string) QualityTier {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "authoritative_regulatory", "authoritative", "regulatory":
		return TierAuthoritative
	case "industry_framework", "industry":
		return TierIndustryFramework
	case "generic_global", "generic", "global":
		return TierGenericGlobal
	default:
		return TierUnknown
	}
}

// MarshalYAML encodes the tier as its string label.
func (q QualityTier) MarshalYAML() (interface{}, error) {
	return q.String(), nil
}

// UnmarshalYAML decodes a tier from its string label.
func (q *QualityTier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var label string
	if err := unmarshal(&label); err != nil {
		return err
	}
	*q = ParseQualityTier(label)
	return nil
}

// GasBreakdown decomposes a factor into its greenhouse gas species. All
// values are already expressed in CO2-equivalent terms, in the same unit as
// the parent record's value.
type GasBreakdown struct {
	CO2 float64 `json:"co2" yaml:"co2"`
	CH4 float64 `json:"ch4" yaml:"ch4"`
	N2O float64 `json:"n2o" yaml:"n2o"`
}

// Sum returns the total of all species.
func (g GasBreakdown) Sum() float64 {
	return g.CO2 + g.CH4 + g.N2O
}

// Scale returns the breakdown multiplied by a quantity.
func (g GasBreakdown) Scale(quantity float64) GasBreakdown {
	return GasBreakdown{
		CO2: g.CO2 * quantity,
		CH4: g.CH4 * quantity,
		N2O: g.N2O * quantity,
	}
}

// Record is one reference emission factor. Records are immutable once
// loaded; the store owns them exclusively and never mutates one in place.
type Record struct {
	// ActivityKey is the normalized activity identity this factor applies to.
	ActivityKey string `json:"activity_key" yaml:"activity"`

	// Region is the geographic scope. GlobalRegion is the universal fallback.
	Region string `json:"region" yaml:"region"`

	// Unit is the canonical unit the factor is denominated in.
	Unit string `json:"unit" yaml:"unit"`

	// Value is the emitted CO2e mass in kilograms per Unit of activity.
	Value float64 `json:"value" yaml:"value"`

	// GasBreakdown optionally decomposes Value into CO2/CH4/N2O sub-factors.
	GasBreakdown *GasBreakdown `json:"gas_breakdown,omitempty" yaml:"gas_breakdown,omitempty"`

	// Source names the publishing body, e.g. "CEA" or "DEFRA".
	Source string `json:"source" yaml:"source"`

	// VintageYear is the publication year of the factor.
	VintageYear int `json:"vintage_year" yaml:"vintage_year"`

	// Priority is the tie-break rank among records of the same activity and
	// region. Lower numeric value wins. Across groups it is meaningless.
	Priority int `json:"priority" yaml:"priority"`

	// QualityTier labels the record's provenance confidence.
	QualityTier QualityTier `json:"quality_tier" yaml:"quality_tier"`
}

// Validate checks the record against the load-time invariants.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ActivityKey) == "" {
		return ErrEmptyActivity
	}
	if strings.TrimSpace(r.Unit) == "" {
		return fmt.Errorf("%w: activity %q", ErrEmptyUnit, r.ActivityKey)
	}
	if !units.Known(r.Unit) {
		return fmt.Errorf("%w: activity %q unit %q", ErrUnknownUnit, r.ActivityKey, r.Unit)
	}
	if r.Value < 0 {
		return fmt.Errorf("%w: activity %q value %v", ErrNegativeValue, r.ActivityKey, r.Value)
	}
	if r.GasBreakdown != nil {
		sum := r.GasBreakdown.Sum()
		scale := math.Max(math.Abs(r.Value), 1)
		if math.Abs(sum-r.Value) > breakdownTolerance*scale {
			return fmt.Errorf("%w: activity %q sum %v value %v",
				ErrBreakdownMismatch, r.ActivityKey, sum, r.Value)
		}
	}
	return nil
}

// Describe returns a short human-readable identity for audit output.
func (r Record) Describe() string {
	return fmt.Sprintf("%s/%s (%s, %d) %v kgCO2e per %s",
		r.ActivityKey, r.Region, r.Source, r.VintageYear, r.Value, r.Unit)
}
