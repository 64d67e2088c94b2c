package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is an ordered, fixed-length sequence of gene values. Gene i is
// index-aligned with the i-th declared parameter of the search space.
type Genome []any

func (g Genome) Len() int {
	return len(g)
}

func (g Genome) Gene(i int) any {
	return g[i]
}

func (g Genome) SetGene(i int, v any) {
	g[i] = v
}

func (g Genome) Clone() Genome {
	if g == nil {
		return nil
	}
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Individual wraps a genome handled by the outer evolutionary loop.
type Individual struct {
	ID     string `json:"id,omitempty"`
	Genome Genome `json:"genome"`
}

func (i *Individual) Len() int {
	if i == nil {
		return 0
	}
	return len(i.Genome)
}

func (i *Individual) ReplaceGenome(genome Genome) {
	i.Genome = genome
}

// Clone returns a deep copy of the individual and its genome.
func (i *Individual) Clone() *Individual {
	if i == nil {
		return nil
	}
	return &Individual{ID: i.ID, Genome: i.Genome.Clone()}
}

// Batch is a named, persisted set of individuals.
type Batch struct {
	VersionedRecord
	ID          string       `json:"id"`
	Profile     string       `json:"profile,omitempty"`
	Individuals []Individual `json:"individuals"`
}
