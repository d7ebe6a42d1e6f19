package resolver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/greenledger/emfactor/internal/estimator"
	"github.com/greenledger/emfactor/internal/factor"
	"github.com/greenledger/emfactor/internal/logging"
	"github.com/greenledger/emfactor/internal/units"
)

// outlierRatio flags a winning value implausibly small for its activity
// class: below this fraction of the peer median.
const outlierRatio = 0.1

// assemble turns a ranked candidate list into the caller-facing result. The
// first candidate is the winner; the rest become alternatives up to the
// configured cap.
func (e *Engine) assemble(ctx context.Context, store *factor.Store, id string, req Request, cands []candidate, start time.Time) *Result {
	log := logging.FromContext(ctx)

	winner := cands[0]
	rec := winner.rec
	co2e := winner.quantity * rec.Value

	result := &Result{
		ID:           id,
		CO2eKg:       co2e,
		FactorUsed:   rec.Value,
		FactorUnit:   rec.Unit,
		Source:       rec.Source,
		Layer:        winner.layer,
		Confidence:   Confidence(winner.layer, rec.QualityTier),
		QualityTier:  rec.QualityTier,
		TierLabel:    rec.QualityTier.String(),
		MatchDetails: matchDetails(req, winner),
		Alternatives: e.alternatives(cands[1:]),
		Warnings:     e.warnings(store, winner),
	}

	if rec.GasBreakdown != nil {
		scaled := rec.GasBreakdown.Scale(winner.quantity)
		result.GasBreakdown = &scaled
	}

	log.Info().
		Str("component", "resolver").
		Str("resolution_id", id).
		Str("activity", rec.ActivityKey).
		Str("region", rec.Region).
		Str("source", rec.Source).
		Stringer("layer", winner.layer).
		Float64("co2e_kg", co2e).
		Float64("confidence", result.Confidence).
		Int("alternatives", len(result.Alternatives)).
		Dur("elapsed", time.Since(start)).
		Msg("resolution complete")

	return result
}

// assembleEstimate builds the result for a Layer 3 estimate. Estimates
// always land at the bottom of the confidence scale and are never written
// back into the factor store.
func (e *Engine) assembleEstimate(ctx context.Context, id string, req Request, cand *estimator.Candidate, quantity float64, start time.Time) *Result {
	log := logging.FromContext(ctx)

	details := fmt.Sprintf("estimated by external capability for %q", req.ActivityType)
	if cand.Explanation != "" {
		details += ": " + cand.Explanation
	}

	canonical, _ := units.Normalize(req.Unit)
	var warnings []Warning
	if canonical != cand.Unit {
		warnings = append(warnings, WarningUnitConverted)
	}

	result := &Result{
		ID:           id,
		CO2eKg:       quantity * cand.Value,
		FactorUsed:   cand.Value,
		FactorUnit:   cand.Unit,
		Source:       cand.Source,
		Layer:        LayerAIEstimate,
		Confidence:   Confidence(LayerAIEstimate, factor.TierUnknown),
		QualityTier:  factor.TierUnknown,
		TierLabel:    factor.TierUnknown.String(),
		MatchDetails: details,
		Warnings:     warnings,
	}

	log.Info().
		Str("component", "resolver").
		Str("resolution_id", id).
		Str("activity", req.ActivityType).
		Float64("co2e_kg", result.CO2eKg).
		Dur("elapsed", time.Since(start)).
		Msg("resolution complete via estimation")

	return result
}

// alternatives converts runner-up candidates into caller-facing entries.
func (e *Engine) alternatives(cands []candidate) []Alternative {
	n := len(cands)
	if n > e.maxAlternatives {
		n = e.maxAlternatives
	}

	out := make([]Alternative, 0, n)
	for _, c := range cands[:n] {
		out = append(out, Alternative{
			FactorValue: c.rec.Value,
			FactorUnit:  c.rec.Unit,
			Source:      c.rec.Source,
			Region:      c.rec.Region,
			VintageYear: c.rec.VintageYear,
			Priority:    c.rec.Priority,
			QualityTier: c.rec.QualityTier,
			TierLabel:   c.rec.QualityTier.String(),
			Layer:       c.layer,
			Confidence:  Confidence(c.layer, c.rec.QualityTier),
		})
	}
	return out
}

// warnings derives the validation warnings for a winning candidate.
func (e *Engine) warnings(store *factor.Store, winner candidate) []Warning {
	var out []Warning
	if winner.converted {
		out = append(out, WarningUnitConverted)
	}
	if winner.regionRank == 1 {
		out = append(out, WarningGlobalFallback)
	}
	if isMagnitudeOutlier(store, winner.rec) {
		out = append(out, WarningMagnitudeOutlier)
	}
	return out
}

// isMagnitudeOutlier reports whether a record's value sits far below the
// median of the activity's other records, after converting every peer to
// the record's own unit.
func isMagnitudeOutlier(store *factor.Store, rec *factor.Record) bool {
	var peers []float64
	for _, peer := range store.LookupByActivity(rec.ActivityKey) {
		if peer == rec || !units.SameDimension(peer.Unit, rec.Unit) {
			continue
		}
		// A factor of v kgCO2e per peer unit expressed per rec unit scales
		// by how many peer units one rec unit holds.
		scale, err := units.Convert(1, rec.Unit, peer.Unit)
		if err != nil {
			continue
		}
		peers = append(peers, peer.Value*scale)
	}
	if len(peers) < 2 {
		return false
	}

	sort.Float64s(peers)
	median := peers[len(peers)/2]
	if len(peers)%2 == 0 {
		median = (peers[len(peers)/2-1] + peers[len(peers)/2]) / 2
	}

	return median > 0 && rec.Value < median*outlierRatio
}

// matchDetails renders the human-auditable description of how the match was
// found.
func matchDetails(req Request, winner candidate) string {
	rec := winner.rec

	switch winner.layer {
	case LayerExact:
		details := fmt.Sprintf("exact match for %q in %s per %s", rec.ActivityKey, rec.Region, rec.Unit)
		if winner.regionRank == 1 {
			details += " (no regional record, used Global fallback)"
		}
		return details
	case LayerUnitNormalized:
		details := fmt.Sprintf("matched %q in %s after converting %v %s to %v %s",
			rec.ActivityKey, rec.Region, req.Quantity, req.Unit, winner.quantity, rec.Unit)
		if !winner.converted {
			details = fmt.Sprintf("matched %q in %s per %s outside the exact region/unit index",
				rec.ActivityKey, rec.Region, rec.Unit)
		}
		return details
	case LayerCategoryProxy:
		return fmt.Sprintf("no records for %q; resolved via category %q in %s per %s",
			winner.proxied, rec.ActivityKey, rec.Region, rec.Unit)
	default:
		return fmt.Sprintf("matched %q in %s per %s", rec.ActivityKey, rec.Region, rec.Unit)
	}
}
