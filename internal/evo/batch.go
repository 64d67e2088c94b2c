package evo

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"genopt/internal/model"
	"genopt/internal/rng"
)

type BatchOptions struct {
	// Workers caps concurrent mutations; 0 means GOMAXPROCS.
	Workers int
	// Seed roots the per-individual streams. Individual i always draws from
	// rng.Derive(Seed, i), so results do not depend on Workers.
	Seed int64
}

// MutateBatch mutates every individual in place with bounded concurrency.
// Outcomes are index-aligned with individuals. All failures are returned
// joined; individuals that failed may carry a partial mutation.
func MutateBatch(ctx context.Context, engine *Engine, individuals []*model.Individual, opts BatchOptions) ([]Outcome, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must be >= 0, got %d", opts.Workers)
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(individuals))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, individual := range individuals {
		p.Go(func(ctx context.Context) error {
			outcome, err := engine.MutateTraced(ctx, rng.Derive(opts.Seed, uint64(i)), individual)
			outcomes[i] = outcome
			if err != nil {
				return fmt.Errorf("individual %d%s: %w", i, idSuffix(individual), err)
			}
			return nil
		})
	}
	return outcomes, p.Wait()
}

func idSuffix(individual *model.Individual) string {
	if individual == nil || individual.ID == "" {
		return ""
	}
	return " (" + individual.ID + ")"
}
