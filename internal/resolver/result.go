// Package resolver implements layered emission factor resolution.
//
// Given a named activity, a quantity, a unit and a region, the engine walks
// an ordered chain of matching strategies against the factor store — exact,
// unit-normalized, category proxy, then AI estimation — and multiplies
// through to a CO2-equivalent mass. Every result records which layer
// produced it and how confident the engine is in the match, so callers can
// decide whether a degraded answer needs manual confirmation.
package resolver

import (
	"fmt"

	"github.com/greenledger/emfactor/internal/factor"
)

// Layer identifies the tier of the fallback chain that produced a result.
// Lower is more trustworthy.
type Layer int

const (
	// LayerExact matched activity, region and unit directly.
	LayerExact Layer = 0

	// LayerUnitNormalized matched after converting the caller's unit within
	// its dimension.
	LayerUnitNormalized Layer = 1

	// LayerCategoryProxy matched a coarser declared category in place of an
	// unknown activity.
	LayerCategoryProxy Layer = 2

	// LayerAIEstimate used the external estimation capability.
	LayerAIEstimate Layer = 3

	// LayerFailed marks the terminal failure case.
	LayerFailed Layer = -1
)

// String returns a human-readable representation of the Layer.
func (l Layer) String() string {
	switch l {
	case LayerExact:
		return "exact"
	case LayerUnitNormalized:
		return "unit_normalized"
	case LayerCategoryProxy:
		return "category_proxy"
	case LayerAIEstimate:
		return "ai_estimate"
	case LayerFailed:
		return "failed"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// Warning flags a resolution that succeeded but deserves caller attention.
type Warning string

const (
	// WarningUnitConverted means the caller's unit required conversion to
	// reach the winning factor.
	WarningUnitConverted Warning = "unit_conversion_applied"

	// WarningGlobalFallback means no record existed for the caller's region
	// and the Global fallback was used.
	WarningGlobalFallback Warning = "global_region_fallback"

	// WarningMagnitudeOutlier means the winning value is implausibly small
	// compared to the rest of that activity's records.
	WarningMagnitudeOutlier Warning = "value_magnitude_outlier"
)

// Request is one resolution call. Region defaults to the engine's configured
// default when empty.
type Request struct {
	ActivityType    string  `json:"activity_type"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	Region          string  `json:"region,omitempty"`
	FreeTextContext string  `json:"free_text_context,omitempty"`
}

// Alternative is a runner-up candidate the engine rejected, with enough
// detail for a caller to override the automatic choice.
type Alternative struct {
	FactorValue float64            `json:"factor_value"`
	FactorUnit  string             `json:"factor_unit"`
	Source      string             `json:"source"`
	Region      string             `json:"region"`
	VintageYear int                `json:"vintage_year"`
	Priority    int                `json:"priority"`
	QualityTier factor.QualityTier `json:"-"`
	TierLabel   string             `json:"quality_tier"`
	Layer       Layer              `json:"layer"`
	Confidence  float64            `json:"confidence"`
}

// Failure describes a resolution that produced no usable factor. It is
// mutually exclusive with a populated CO2eKg.
type Failure struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
}

// Result is the outcome of one resolution call, owned solely by the caller.
// Exactly one of the success fields or Failure is inhabited.
type Result struct {
	// ID is a unique audit identifier for this resolution.
	ID string `json:"id"`

	// CO2eKg is the computed emission mass in kilograms CO2e. Zero when
	// Failure is set.
	CO2eKg float64 `json:"co2e_kg"`

	// FactorUsed is the winning factor value, in kgCO2e per FactorUnit.
	FactorUsed float64 `json:"factor_used"`

	// FactorUnit is the unit the winning factor is denominated in.
	FactorUnit string `json:"factor_unit"`

	// Source names the winning factor's publisher.
	Source string `json:"source"`

	// Layer is the fallback tier that produced the match.
	Layer Layer `json:"layer"`

	// Confidence scores the match in [0, 1].
	Confidence float64 `json:"confidence"`

	// QualityTier labels the winning record's provenance.
	QualityTier factor.QualityTier `json:"-"`

	// TierLabel is QualityTier's string form, for serialized output.
	TierLabel string `json:"quality_tier"`

	// MatchDetails describes how the match was found, for audit.
	MatchDetails string `json:"match_details"`

	// GasBreakdown is the per-species emission mass in kilograms CO2e,
	// present when the winning record declares one.
	GasBreakdown *factor.GasBreakdown `json:"gas_breakdown,omitempty"`

	// Alternatives are the next-best candidates, best first.
	Alternatives []Alternative `json:"alternatives"`

	// Warnings flag conditions that deserve caller attention.
	Warnings []Warning `json:"validation_warnings"`

	// Failure is set only in the terminal failure case.
	Failure *Failure `json:"failure,omitempty"`
}

// OK reports whether the resolution produced a usable number.
func (r *Result) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r *Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return fmt.Errorf("%s", r.Failure.Error)
}
