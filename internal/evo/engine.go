package evo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"genopt/internal/model"
	"genopt/internal/space"
)

var (
	ErrInvalidProbability = errors.New("mutation probability must be within [0, 1]")
	ErrGenomeMismatch     = errors.New("genome length does not match declared params")
	ErrNilIndividual      = errors.New("individual is required")
)

// Config is fixed for an engine's lifetime.
type Config struct {
	Kind        string
	Probability float64
	Space       space.Space
	// MaxAttempts bounds rejection sampling per gene; 0 means
	// DefaultMaxAttempts.
	MaxAttempts int
}

// Validate checks everything that can be checked before mutation runs. The
// mutation kind is resolved at dispatch time.
func (c Config) Validate() error {
	if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, c.Probability)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must be >= 0, got %d", c.MaxAttempts)
	}
	return c.Space.Validate()
}

// Engine is the mutation operator. It holds no random state and is safe to
// share between goroutines as long as each caller brings its own *rand.Rand.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Outcome describes one Mutate call.
type Outcome struct {
	Fired bool  `json:"fired"`
	Loci  []int `json:"loci,omitempty"`
}

// Touched returns the distinct indices written, ascending.
func (o Outcome) Touched() []int {
	if len(o.Loci) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(o.Loci))
	out := make([]int, 0, len(o.Loci))
	for _, idx := range o.Loci {
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Mutate perturbs the individual's genome in place and returns the same
// individual. See MutateTraced.
func (e *Engine) Mutate(ctx context.Context, rng *rand.Rand, individual *model.Individual) (*model.Individual, error) {
	_, err := e.MutateTraced(ctx, rng, individual)
	return individual, err
}

// MutateTraced draws once against the configured probability and, if it
// fires, rewrites the genes chosen by the kind's locus selector.
//
// An unknown kind is reported only once the gate has fired. If a gene fails
// to mutate, genes already written in this call keep their new values and
// the returned outcome lists them.
func (e *Engine) MutateTraced(ctx context.Context, rng *rand.Rand, individual *model.Individual) (Outcome, error) {
	if e == nil {
		return Outcome{}, errors.New("engine is required")
	}
	if rng == nil {
		return Outcome{}, errors.New("random source is required")
	}
	if individual == nil {
		return Outcome{}, ErrNilIndividual
	}
	if individual.Len() != e.cfg.Space.Len() {
		return Outcome{}, fmt.Errorf("%w: genome=%d params=%d", ErrGenomeMismatch, individual.Len(), e.cfg.Space.Len())
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if rng.Float64() >= e.cfg.Probability {
		return Outcome{}, nil
	}

	selector, err := ResolveLocusSelector(e.cfg.Kind)
	if err != nil {
		return Outcome{Fired: true}, err
	}

	outcome := Outcome{Fired: true}
	genome := individual.Genome
	for _, idx := range selector.Loci(rng, genome.Len()) {
		param := e.cfg.Space.Params[idx]
		value, err := MutateGene(rng, e.cfg.Space.Kind, param.Spec, genome.Gene(idx), e.cfg.MaxAttempts)
		if err != nil {
			return outcome, fmt.Errorf("mutate gene %d (%s): %w", idx, param.Name, err)
		}
		genome.SetGene(idx, value)
		outcome.Loci = append(outcome.Loci, idx)
	}
	return outcome, nil
}
