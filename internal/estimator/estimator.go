// Package estimator isolates the engine's last-resort estimation capability
// behind a narrow interface.
//
// The resolver only ever sees Estimate; transport, authentication and
// response parsing for the external model live here. A malformed or missing
// response is always reported as no candidate, never as a numeric zero.
package estimator

import (
	"context"

	"github.com/greenledger/emfactor/internal/logging"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNoEstimate indicates the capability produced no usable factor.
	ErrNoEstimate = constError("estimator returned no usable factor")

	// ErrUnavailable indicates the capability could not be reached at all.
	ErrUnavailable = constError("estimator unavailable")
)

// Query carries everything the external capability may use to produce a
// plausible factor.
type Query struct {
	ActivityType    string
	Quantity        float64
	Unit            string
	Region          string
	FreeTextContext string
}

// Candidate is an estimated emission factor. Value is kgCO2e per Unit of
// activity, always strictly positive.
type Candidate struct {
	Value       float64
	Unit        string
	Source      string
	Explanation string
}

// Estimator produces a plausible emission factor for an activity the
// reference dataset does not cover.
type Estimator interface {
	// Estimate returns a candidate factor or an error. Implementations must
	// honor ctx cancellation and must never return a zero-valued candidate
	// in place of an error.
	Estimate(ctx context.Context, query Query) (*Candidate, error)
}

// Func adapts a plain function to the Estimator interface, for tests and
// in-process capabilities.
type Func func(ctx context.Context, query Query) (*Candidate, error)

// Estimate calls f.
func (f Func) Estimate(ctx context.Context, query Query) (*Candidate, error) {
	return f(ctx, query)
}

// Disabled returns an Estimator that always reports no estimate, for
// deployments that run without the external capability.
func Disabled() Estimator {
	return Func(func(ctx context.Context, query Query) (*Candidate, error) {
		logging.FromContext(ctx).Debug().
			Str("component", "estimator").
			Str("activity", query.ActivityType).
			Msg("estimation disabled")
		return nil, ErrNoEstimate
	})
}
