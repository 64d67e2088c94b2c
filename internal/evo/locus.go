package evo

import "math/rand"

const (
	KindSingleGene            = "single-gene"
	KindMultipleGenes         = "multiple-genes"
	KindMultipleGenesDistinct = "multiple-genes-distinct"
)

// LocusSelector picks the gene indices a mutation pass writes, in write
// order. Indices may repeat.
type LocusSelector interface {
	Name() string
	Loci(rng *rand.Rand, genes int) []int
}

// SingleGene touches exactly one uniformly chosen gene.
type SingleGene struct{}

func (SingleGene) Name() string {
	return KindSingleGene
}

func (SingleGene) Loci(rng *rand.Rand, genes int) []int {
	if genes <= 0 {
		return nil
	}
	return []int{rng.Intn(genes)}
}

// MultipleGenes draws k uniformly from [1, genes-1], then k indices with
// replacement. A repeated index is mutated again from its then-current value.
// A one-gene genome gets k=1.
type MultipleGenes struct{}

func (MultipleGenes) Name() string {
	return KindMultipleGenes
}

func (MultipleGenes) Loci(rng *rand.Rand, genes int) []int {
	if genes <= 0 {
		return nil
	}
	k := mutationCount(rng, genes)
	loci := make([]int, k)
	for i := range loci {
		loci[i] = rng.Intn(genes)
	}
	return loci
}

// MultipleGenesDistinct draws the same count as MultipleGenes but without
// replacement, so exactly k genes change.
type MultipleGenesDistinct struct{}

func (MultipleGenesDistinct) Name() string {
	return KindMultipleGenesDistinct
}

func (MultipleGenesDistinct) Loci(rng *rand.Rand, genes int) []int {
	if genes <= 0 {
		return nil
	}
	k := mutationCount(rng, genes)
	return rng.Perm(genes)[:k]
}

func mutationCount(rng *rand.Rand, genes int) int {
	if genes < 2 {
		return 1
	}
	return 1 + rng.Intn(genes-1)
}
