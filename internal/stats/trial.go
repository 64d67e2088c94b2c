package stats

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"genopt/internal/evo"
	"genopt/internal/model"
	"genopt/internal/rng"
)

type TrialRequest struct {
	Baseline model.Genome
	Trials   int
	Seed     int64
}

// Distribution summarizes a per-trial count.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type GeneStat struct {
	Name     string `json:"name"`
	Selected int    `json:"selected"`
	Changed  int    `json:"changed"`
}

// TrialReport describes how an engine behaves on repeated mutation of one
// baseline genome.
type TrialReport struct {
	Kind        string       `json:"kind"`
	Probability float64      `json:"probability"`
	Trials      int          `json:"trials"`
	Fired       int          `json:"fired"`
	Failed      int          `json:"failed"`
	FireRate    float64      `json:"fire_rate"`
	Loci        Distribution `json:"loci"`
	Touched     Distribution `json:"touched"`
	Changed     Distribution `json:"changed"`
	Genes       []GeneStat   `json:"genes"`
	FirstError  string       `json:"first_error,omitempty"`
}

// Trial mutates fresh clones of the baseline Trials times from a single
// seeded stream. Loci, touched and changed distributions cover fired trials
// only.
func Trial(ctx context.Context, engine *evo.Engine, req TrialRequest) (TrialReport, error) {
	if engine == nil {
		return TrialReport{}, errors.New("engine is required")
	}
	if req.Trials <= 0 {
		return TrialReport{}, fmt.Errorf("trials must be > 0, got %d", req.Trials)
	}
	cfg := engine.Config()
	if len(req.Baseline) != cfg.Space.Len() {
		return TrialReport{}, fmt.Errorf("%w: baseline=%d params=%d", evo.ErrGenomeMismatch, len(req.Baseline), cfg.Space.Len())
	}

	report := TrialReport{
		Kind:        cfg.Kind,
		Probability: cfg.Probability,
		Trials:      req.Trials,
		Genes:       make([]GeneStat, cfg.Space.Len()),
	}
	for i, p := range cfg.Space.Params {
		report.Genes[i].Name = p.Name
	}

	r := rng.FromSeed(req.Seed)
	var loci, touched, changed []float64
	for i := 0; i < req.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return TrialReport{}, err
		}
		individual := &model.Individual{Genome: req.Baseline.Clone()}
		outcome, err := engine.MutateTraced(ctx, r, individual)
		if err != nil {
			if errors.Is(err, evo.ErrUnsupportedMutationKind) {
				return TrialReport{}, err
			}
			report.Failed++
			if report.FirstError == "" {
				report.FirstError = err.Error()
			}
		}
		if !outcome.Fired {
			continue
		}
		report.Fired++

		diff := 0
		for idx := range req.Baseline {
			if !model.GeneEqual(req.Baseline[idx], individual.Genome[idx]) {
				report.Genes[idx].Changed++
				diff++
			}
		}
		for _, idx := range outcome.Touched() {
			report.Genes[idx].Selected++
		}
		loci = append(loci, float64(len(outcome.Loci)))
		touched = append(touched, float64(len(outcome.Touched())))
		changed = append(changed, float64(diff))
	}

	report.FireRate = float64(report.Fired) / float64(report.Trials)
	report.Loci = Summarize(loci)
	report.Touched = Summarize(touched)
	report.Changed = Summarize(changed)
	return report, nil
}

// Summarize returns the zero Distribution for empty input.
func Summarize(xs []float64) Distribution {
	if len(xs) == 0 {
		return Distribution{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Distribution{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}
