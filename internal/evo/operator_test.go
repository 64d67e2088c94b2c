package evo

import (
	"context"
	"math/rand"
	"testing"

	"genopt/internal/model"
)

func TestMutationOperatorAppliesEngine(t *testing.T) {
	engine := mustEngine(t, Config{Kind: KindSingleGene, Probability: 1, Space: fixedBinarySpace(3)})
	var op Operator = &MutationOperator{Engine: engine, Rand: rand.New(rand.NewSource(4))}
	if op.Name() != "mutate_single-gene" {
		t.Fatalf("unexpected operator name: %s", op.Name())
	}

	ind := &model.Individual{Genome: model.Genome{0, 0, 0}}
	got, err := op.Apply(context.Background(), ind)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != ind || len(changedIndexes(model.Genome{0, 0, 0}, got.Genome)) != 1 {
		t.Fatalf("expected one flipped gene in place, got %v", got.Genome)
	}
}

func TestMutationOperatorRequiresEngine(t *testing.T) {
	op := &MutationOperator{}
	if op.Name() != "mutate" {
		t.Fatalf("unexpected fallback name: %s", op.Name())
	}
	if _, err := op.Apply(context.Background(), &model.Individual{}); err == nil {
		t.Fatal("expected missing engine error")
	}
}
