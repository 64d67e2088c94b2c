package evo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"genopt/internal/model"
)

func batchOf(n int) []*model.Individual {
	out := make([]*model.Individual, n)
	for i := range out {
		out[i] = &model.Individual{Genome: model.Genome{3, 0.25, "relu", 0, "adam"}}
	}
	return out
}

func TestMutateBatchIsIndependentOfWorkerCount(t *testing.T) {
	engine := mustEngine(t, Config{Kind: KindMultipleGenes, Probability: 0.7, Space: flexibleSpace()})
	ctx := context.Background()

	serial := batchOf(64)
	serialOutcomes, err := MutateBatch(ctx, engine, serial, BatchOptions{Workers: 1, Seed: 99})
	if err != nil {
		t.Fatalf("serial batch: %v", err)
	}
	parallel := batchOf(64)
	parallelOutcomes, err := MutateBatch(ctx, engine, parallel, BatchOptions{Workers: 8, Seed: 99})
	if err != nil {
		t.Fatalf("parallel batch: %v", err)
	}

	if !reflect.DeepEqual(serialOutcomes, parallelOutcomes) {
		t.Fatal("outcomes depend on worker count")
	}
	fired := 0
	for i := range serial {
		if !reflect.DeepEqual(serial[i].Genome, parallel[i].Genome) {
			t.Fatalf("individual %d differs: %v vs %v", i, serial[i].Genome, parallel[i].Genome)
		}
		if serialOutcomes[i].Fired {
			fired++
		}
	}
	if fired == 0 || fired == len(serial) {
		t.Fatalf("expected a mix of fired and skipped individuals at p=0.7, got %d/%d", fired, len(serial))
	}
}

func TestMutateBatchCollectsErrors(t *testing.T) {
	engine := mustEngine(t, Config{Kind: KindSingleGene, Probability: 1, Space: fixedBinarySpace(2)})
	individuals := []*model.Individual{
		{ID: "ok", Genome: model.Genome{0, 0}},
		{ID: "short", Genome: model.Genome{0}},
		{ID: "ok-too", Genome: model.Genome{1, 1}},
	}
	outcomes, err := MutateBatch(context.Background(), engine, individuals, BatchOptions{Workers: 2, Seed: 1})
	if !errors.Is(err, ErrGenomeMismatch) {
		t.Fatalf("expected ErrGenomeMismatch, got %v", err)
	}
	if len(outcomes) != 3 || !outcomes[0].Fired || outcomes[1].Fired || !outcomes[2].Fired {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}

func TestMutateBatchValidatesOptions(t *testing.T) {
	if _, err := MutateBatch(context.Background(), nil, nil, BatchOptions{}); err == nil {
		t.Fatal("expected missing engine error")
	}
	engine := mustEngine(t, Config{Kind: KindSingleGene, Probability: 1, Space: fixedBinarySpace(2)})
	if _, err := MutateBatch(context.Background(), engine, nil, BatchOptions{Workers: -1}); err == nil {
		t.Fatal("expected negative workers error")
	}
	outcomes, err := MutateBatch(context.Background(), engine, nil, BatchOptions{})
	if err != nil || len(outcomes) != 0 {
		t.Fatalf("expected empty batch to succeed, got %v %v", outcomes, err)
	}
}
