package gasket

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
)

// DefaultAttempts is the number of seeds GenerateWithRetry tries when the
// caller passes zero.
const DefaultAttempts = 5

// GenerateWithRetry samples random seeds from rng until one builds a gasket
// without a geometric degeneracy, or attempts seeds have failed. It returns
// the gasket and the seed that produced it.
//
// Only INVALID_SEED, DEGENERATE_INPUT and NO_UNIQUE_SOLUTION trigger a new
// sample; any other error is returned at once. The context is checked
// between attempts.
func GenerateWithRetry(ctx context.Context, rng *rand.Rand, radius float64, attempts int, opts Options) (*Gasket, [3]geom.Point, error) {
	return GenerateWithRetryFunc(ctx, rng, radius, attempts, opts, nil)
}

// GenerateWithRetryFunc is GenerateWithRetry with a callback invoked after
// every rejected seed. onRetry may be nil.
func GenerateWithRetryFunc(ctx context.Context, rng *rand.Rand, radius float64, attempts int, opts Options, onRetry func(attempt int, err error)) (*Gasket, [3]geom.Point, error) {
	var seed [3]geom.Point
	if err := opts.Validate(); err != nil {
		return nil, seed, err
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, seed, errors.New(errors.ErrCodeInvalidInput, "seed radius must be positive and finite, got %g", radius)
	}
	if attempts < 0 {
		return nil, seed, errors.New(errors.ErrCodeInvalidInput, "attempts must not be negative, got %d", attempts)
	}
	if attempts == 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, seed, err
		}
		seed = RandomSeed(rng, radius)
		g, err := Build(seed, opts)
		if err == nil {
			return g, seed, nil
		}
		if !errors.IsDegenerate(err) {
			return nil, seed, err
		}
		lastErr = err
		if onRetry != nil {
			onRetry(i+1, err)
		}
	}
	return nil, seed, fmt.Errorf("no usable seed after %d attempts: %w", attempts, lastErr)
}
