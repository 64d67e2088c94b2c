package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrLocusSelectorExists     = errors.New("locus selector already registered")
	ErrUnsupportedMutationKind = errors.New("mutation type not supported")
)

var locusRegistry = struct {
	mu sync.RWMutex
	m  map[string]LocusSelector
}{
	m: builtinLocusSelectors(),
}

func builtinLocusSelectors() map[string]LocusSelector {
	return map[string]LocusSelector{
		KindSingleGene:            SingleGene{},
		KindMultipleGenes:         MultipleGenes{},
		KindMultipleGenesDistinct: MultipleGenesDistinct{},
	}
}

// RegisterLocusSelector makes a selector available as a mutation kind under
// its Name.
func RegisterLocusSelector(selector LocusSelector) error {
	if selector == nil {
		return errors.New("locus selector is required")
	}
	name := selector.Name()
	if name == "" {
		return errors.New("locus selector name is required")
	}

	locusRegistry.mu.Lock()
	defer locusRegistry.mu.Unlock()

	if _, exists := locusRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrLocusSelectorExists, name)
	}
	locusRegistry.m[name] = selector
	return nil
}

// ResolveLocusSelector returns the selector for a mutation kind.
func ResolveLocusSelector(kind string) (LocusSelector, error) {
	locusRegistry.mu.RLock()
	selector, ok := locusRegistry.m[kind]
	locusRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMutationKind, kind)
	}
	return selector, nil
}

func ListLocusSelectors() []string {
	locusRegistry.mu.RLock()
	defer locusRegistry.mu.RUnlock()

	names := make([]string, 0, len(locusRegistry.m))
	for name := range locusRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetLocusRegistryForTests() {
	locusRegistry.mu.Lock()
	defer locusRegistry.mu.Unlock()
	locusRegistry.m = builtinLocusSelectors()
}
