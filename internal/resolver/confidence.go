package resolver

import "github.com/greenledger/emfactor/internal/factor"

// Layer base confidences. The bands are disjoint: the worst score a layer
// can produce still beats the best score of the next layer down, so
// confidence is strictly monotonic in layer regardless of quality tier.
const (
	exactBase          = 0.95
	unitNormalizedBase = 0.80
	categoryProxyBase  = 0.60
	aiEstimateBase     = 0.35

	// Tier penalties, subtracted within a layer's band. Authoritative
	// sources keep the full base.
	industryPenalty = 0.03
	genericPenalty  = 0.06
	unknownPenalty  = 0.09
)

// Confidence maps (layer, quality tier) to a score in [0, 1]. The mapping is
// fixed and monotonic: confidence strictly decreases as the layer number
// increases, and within a layer an authoritative-regulatory record never
// scores below an industry-framework or generic-global one.
func Confidence(layer Layer, tier factor.QualityTier) float64 {
	var base float64
	switch layer {
	case LayerExact:
		base = exactBase
	case LayerUnitNormalized:
		base = unitNormalizedBase
	case LayerCategoryProxy:
		base = categoryProxyBase
	case LayerAIEstimate:
		// AI estimates always score at the bottom of the scale; the
		// record-level tier does not apply.
		return aiEstimateBase - unknownPenalty
	default:
		return 0
	}

	switch tier {
	case factor.TierAuthoritative:
		return base
	case factor.TierIndustryFramework:
		return base - industryPenalty
	case factor.TierGenericGlobal:
		return base - genericPenalty
	default:
		return base - unknownPenalty
	}
}
