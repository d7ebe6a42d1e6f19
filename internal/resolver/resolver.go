package resolver

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/greenledger/emfactor/internal/estimator"
	"github.com/greenledger/emfactor/internal/factor"
	"github.com/greenledger/emfactor/internal/logging"
	"github.com/greenledger/emfactor/internal/units"
)

// Defaults for engine construction.
const (
	// DefaultRegion is assumed when a request names no region.
	DefaultRegion = "India"

	// DefaultMaxAlternatives caps the runner-up list on each result.
	DefaultMaxAlternatives = 3

	// DefaultEstimateTimeout bounds the Layer 3 call. On expiry the engine
	// falls through to the terminal failure path; it never retries.
	DefaultEstimateTimeout = 20 * time.Second
)

// Engine is the layered resolver. It is read-mostly and safe for unlimited
// concurrent Resolve calls: the only shared state is the store handle, which
// swaps atomically on reload.
type Engine struct {
	store           *factor.Handle
	estimator       estimator.Estimator
	proxies         map[string]string
	defaultRegion   string
	maxAlternatives int
	estimateTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultRegion overrides the region assumed for requests that name none.
func WithDefaultRegion(region string) Option {
	return func(e *Engine) {
		if strings.TrimSpace(region) != "" {
			e.defaultRegion = region
		}
	}
}

// WithProxies merges extra category proxy prefixes over the built-in table.
func WithProxies(proxies map[string]string) Option {
	return func(e *Engine) {
		for prefix, category := range proxies {
			e.proxies[prefix] = category
		}
	}
}

// WithMaxAlternatives caps the runner-up list. Values below zero are ignored.
func WithMaxAlternatives(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxAlternatives = n
		}
	}
}

// WithEstimateTimeout bounds the Layer 3 estimation call.
func WithEstimateTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.estimateTimeout = d
		}
	}
}

// New constructs an Engine over a store handle and an estimation capability.
// Pass estimator.Disabled() to run without Layer 3.
func New(store *factor.Handle, est estimator.Estimator, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		estimator:       est,
		proxies:         make(map[string]string, len(defaultProxies)),
		defaultRegion:   DefaultRegion,
		maxAlternatives: DefaultMaxAlternatives,
		estimateTimeout: DefaultEstimateTimeout,
	}
	for prefix, category := range defaultProxies {
		e.proxies[prefix] = category
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// candidate is one eligible record during layer evaluation.
type candidate struct {
	rec *factor.Record

	// layer is the tier the candidate was found at.
	layer Layer

	// regionRank orders region specificity: 0 exact, 1 Global, 2 other.
	regionRank int

	// quantity is the caller's quantity converted into rec.Unit.
	quantity float64

	// converted is true when the caller's unit differed from rec.Unit.
	converted bool

	// proxied names the category queried in place of the original activity,
	// empty outside Layer 2.
	proxied string
}

// Resolve walks the layer chain for one request and always returns a
// Result; total exhaustion is reported through Result.Failure, never as a
// zero-valued success.
func (e *Engine) Resolve(ctx context.Context, req Request) *Result {
	log := logging.FromContext(ctx)
	id := logging.NewTraceID()
	start := time.Now()

	region := req.Region
	if strings.TrimSpace(region) == "" {
		region = e.defaultRegion
	}

	if fail := validate(req); fail != nil {
		return e.failure(id, fail.Error, fail.Suggestion)
	}

	store := e.store.Load()
	activity := factor.NormalizeActivity(req.ActivityType)

	log.Debug().
		Str("component", "resolver").
		Str("resolution_id", id).
		Str("activity", activity).
		Str("region", region).
		Str("unit", req.Unit).
		Float64("quantity", req.Quantity).
		Msg("starting resolution")

	// Layer 0: exact activity, region and unit.
	if cands := e.exactCandidates(store, activity, region, req, LayerExact, ""); len(cands) > 0 {
		// Runner-ups may come from the unit-normalized view as well.
		cands = appendCandidates(cands, e.normalizedCandidates(store, activity, region, req, LayerUnitNormalized, ""))
		return e.assemble(ctx, store, id, req, cands, start)
	}

	// Layer 1: any unit in the caller's dimension.
	if cands := e.normalizedCandidates(store, activity, region, req, LayerUnitNormalized, ""); len(cands) > 0 {
		return e.assemble(ctx, store, id, req, cands, start)
	}

	// Layer 2: category proxy, only when the activity is entirely unknown.
	if !store.HasActivity(activity) {
		if proxy, ok := e.proxyFor(store, activity); ok {
			log.Debug().
				Str("component", "resolver").
				Str("resolution_id", id).
				Str("activity", activity).
				Str("proxy", proxy).
				Msg("retrying via category proxy")

			cands := e.exactCandidates(store, proxy, region, req, LayerCategoryProxy, activity)
			if len(cands) == 0 {
				cands = e.normalizedCandidates(store, proxy, region, req, LayerCategoryProxy, activity)
			}
			if len(cands) > 0 {
				return e.assemble(ctx, store, id, req, cands, start)
			}
		}
	}

	// Layer 3: external estimation.
	if result := e.estimate(ctx, id, req, region, start); result != nil {
		return result
	}

	return e.failure(id, terminalError(store, activity, req),
		terminalSuggestion(store, activity, req))
}

// validate rejects malformed requests before any store access.
func validate(req Request) *Failure {
	if strings.TrimSpace(req.ActivityType) == "" {
		return &Failure{
			Error:      "activity type is required",
			Suggestion: "provide a named activity such as \"diesel\" or \"electricity\"",
		}
	}
	if math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) || req.Quantity <= 0 {
		return &Failure{
			Error:      fmt.Sprintf("quantity must be a positive finite number, got %v", req.Quantity),
			Suggestion: "provide the consumed amount as a number greater than zero",
		}
	}
	if !units.Known(req.Unit) {
		return &Failure{
			Error:      fmt.Sprintf("unrecognized unit %q", req.Unit),
			Suggestion: "provide the quantity in a recognized mass, volume, energy, distance, tonne-km or passenger-km unit",
		}
	}
	return nil
}

// exactCandidates evaluates the exact-match layer: the caller's region
// first, then the Global fallback.
func (e *Engine) exactCandidates(store *factor.Store, activity, region string, req Request, layer Layer, proxied string) []candidate {
	recs := store.LookupExact(activity, region, req.Unit)
	regionRank := 0
	if len(recs) == 0 && !factor.IsGlobal(region) {
		recs = store.LookupExact(activity, factor.GlobalRegion, req.Unit)
		regionRank = 1
	}

	out := make([]candidate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, candidate{
			rec:        rec,
			layer:      layer,
			regionRank: regionRank,
			quantity:   req.Quantity,
			proxied:    proxied,
		})
	}
	return out
}

// normalizedCandidates evaluates the unit-normalized layer: every record for
// the activity whose unit shares the caller's dimension, converted, then
// ranked by region specificity, priority, vintage and source.
func (e *Engine) normalizedCandidates(store *factor.Store, activity, region string, req Request, layer Layer, proxied string) []candidate {
	wantRegion := factor.NormalizeRegion(region)

	var out []candidate
	for _, rec := range store.LookupByActivity(activity) {
		if !units.SameDimension(req.Unit, rec.Unit) {
			continue
		}
		quantity, err := units.Convert(req.Quantity, req.Unit, rec.Unit)
		if err != nil {
			continue
		}

		rank := 2
		switch {
		case factor.NormalizeRegion(rec.Region) == wantRegion:
			rank = 0
		case factor.IsGlobal(rec.Region):
			rank = 1
		}

		canonical, _ := units.Normalize(req.Unit)
		out = append(out, candidate{
			rec:        rec,
			layer:      layer,
			regionRank: rank,
			quantity:   quantity,
			converted:  canonical != rec.Unit,
			proxied:    proxied,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].regionRank != out[j].regionRank {
			return out[i].regionRank < out[j].regionRank
		}
		if out[i].rec.Priority != out[j].rec.Priority {
			return out[i].rec.Priority < out[j].rec.Priority
		}
		if out[i].rec.VintageYear != out[j].rec.VintageYear {
			return out[i].rec.VintageYear > out[j].rec.VintageYear
		}
		return out[i].rec.Source < out[j].rec.Source
	})
	return out
}

// appendCandidates extends a ranked list with runner-ups from a lower layer,
// skipping records already present.
func appendCandidates(cands, extra []candidate) []candidate {
	seen := make(map[*factor.Record]bool, len(cands))
	for _, c := range cands {
		seen[c.rec] = true
	}
	for _, c := range extra {
		if !seen[c.rec] {
			cands = append(cands, c)
			seen[c.rec] = true
		}
	}
	return cands
}

// estimate runs the Layer 3 path. It returns nil when the capability yields
// nothing usable, sending the caller to the terminal failure path.
func (e *Engine) estimate(ctx context.Context, id string, req Request, region string, start time.Time) *Result {
	log := logging.FromContext(ctx)

	estimateCtx, cancel := context.WithTimeout(ctx, e.estimateTimeout)
	defer cancel()

	cand, err := e.estimator.Estimate(estimateCtx, estimator.Query{
		ActivityType:    req.ActivityType,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		Region:          region,
		FreeTextContext: req.FreeTextContext,
	})
	if err != nil {
		log.Debug().
			Str("component", "resolver").
			Str("resolution_id", id).
			Err(err).
			Msg("estimation layer yielded no candidate")
		return nil
	}

	if !units.SameDimension(req.Unit, cand.Unit) {
		log.Warn().
			Str("component", "resolver").
			Str("resolution_id", id).
			Str("estimate_unit", cand.Unit).
			Str("request_unit", req.Unit).
			Msg("discarding estimate in wrong dimension")
		return nil
	}
	quantity, err := units.Convert(req.Quantity, req.Unit, cand.Unit)
	if err != nil {
		return nil
	}

	return e.assembleEstimate(ctx, id, req, cand, quantity, start)
}

// terminalError summarizes why no layer produced a candidate.
func terminalError(store *factor.Store, activity string, req Request) string {
	if store.HasActivity(activity) {
		return fmt.Sprintf("no factor for %q accepts a quantity in %q", activity, req.Unit)
	}
	return fmt.Sprintf("no emission factor found for activity %q", activity)
}

// terminalSuggestion names the most useful next step for the caller.
func terminalSuggestion(store *factor.Store, activity string, req Request) string {
	if recs := store.LookupByActivity(activity); len(recs) > 0 {
		dims := make(map[string]bool)
		var order []string
		for _, rec := range recs {
			if dim, err := units.DimensionOf(rec.Unit); err == nil && !dims[dim.String()] {
				dims[dim.String()] = true
				order = append(order, dim.String())
			}
		}
		sort.Strings(order)
		return fmt.Sprintf("provide the quantity in %s units", strings.Join(order, " or "))
	}
	return "specify a more specific activity type or extend the reference dataset"
}

// failure builds the terminal failure result.
func (e *Engine) failure(id, message, suggestion string) *Result {
	return &Result{
		ID:        id,
		Layer:     LayerFailed,
		TierLabel: factor.TierUnknown.String(),
		Failure: &Failure{
			Error:      message,
			Suggestion: suggestion,
		},
	}
}
