package resolver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/greenledger/emfactor/internal/logging"
)

// DefaultBatchConcurrency bounds how many resolutions run at once in
// ResolveAll. Resolutions are CPU-light; the bound mainly protects the
// Layer 3 capability from a thundering herd.
const DefaultBatchConcurrency = 8

// ResolveAll resolves every request, preserving input order. Each result
// carries its own success or failure; one failed resolution never aborts
// the rest. The only early exit is cancellation of ctx, in which case the
// remaining slots hold failure results.
func (e *Engine) ResolveAll(ctx context.Context, reqs []Request, concurrency int) []*Result {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	results := make([]*Result, len(reqs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, req := range reqs {
		i, req := i, req
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i] = e.failure(logging.NewTraceID(),
					"resolution cancelled: "+err.Error(),
					"retry the batch")
				return nil
			}
			results[i] = e.Resolve(groupCtx, req)
			return nil
		})
	}

	// Workers only ever return nil; Wait is for completion, not errors.
	_ = group.Wait()

	var failures int
	for _, r := range results {
		if r != nil && !r.OK() {
			failures++
		}
	}

	log.Info().
		Str("component", "resolver").
		Int("requests", len(reqs)).
		Int("failures", failures).
		Int("concurrency", concurrency).
		Dur("elapsed", time.Since(start)).
		Msg("batch resolution complete")

	return results
}
