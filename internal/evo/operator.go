package evo

import (
	"context"
	"errors"
	"math/rand"

	"genopt/internal/model"
)

// Operator is a single step an evolutionary loop applies to a candidate.
type Operator interface {
	Name() string
	Apply(ctx context.Context, individual *model.Individual) (*model.Individual, error)
}

// MutationOperator binds an engine to one worker's random stream.
type MutationOperator struct {
	Engine *Engine
	Rand   *rand.Rand
}

func (o *MutationOperator) Name() string {
	if o == nil || o.Engine == nil {
		return "mutate"
	}
	return "mutate_" + o.Engine.cfg.Kind
}

func (o *MutationOperator) Apply(ctx context.Context, individual *model.Individual) (*model.Individual, error) {
	if o == nil || o.Engine == nil {
		return nil, errors.New("mutation engine is required")
	}
	return o.Engine.Mutate(ctx, o.Rand, individual)
}
