package pipeline

import (
	"context"

	"github.com/matzehuels/gasket/pkg/gasket"
	"github.com/matzehuels/gasket/pkg/geom"
	"github.com/matzehuels/gasket/pkg/observability"
)

// Generated is the output of the generate stage.
type Generated struct {
	Gasket  *gasket.Gasket
	Seed    [3]geom.Point
	Retries int
}

// Generate builds the gasket described by opts without consulting a cache.
// Explicit seeds are used as given; random seeds are re-sampled on
// geometric degeneracies up to opts.Attempts times.
func Generate(ctx context.Context, opts Options) (*Generated, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if seed, ok := opts.SeedPoints(); ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := gasket.Build(seed, opts.GasketOptions())
		if err != nil {
			return nil, err
		}
		return &Generated{Gasket: g, Seed: seed}, nil
	}

	out := &Generated{}
	onRetry := func(attempt int, err error) {
		out.Retries = attempt
		opts.Logger.Debug("rejected random seed", "attempt", attempt, "err", err)
		observability.Pipeline().OnSeedRetry(ctx, attempt, err)
	}
	g, seed, err := gasket.GenerateWithRetryFunc(ctx, gasket.NewRand(opts.Seed), opts.Radius, opts.Attempts, opts.GasketOptions(), onRetry)
	if err != nil {
		return nil, err
	}
	out.Gasket = g
	out.Seed = seed
	return out, nil
}
