package evo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"genopt/internal/model"
	"genopt/internal/space"
)

// DefaultMaxAttempts bounds rejection sampling when Config.MaxAttempts is 0.
const DefaultMaxAttempts = 1000

// MutateGene returns a replacement for current drawn from spec's domain.
//
// Binary fixed specs, two-choice categoricals and {0,1} ints flip
// deterministically. Other discrete domains are rejection-sampled until the
// draw differs from current, giving up with space.ErrDomainExhausted after
// maxAttempts draws or immediately when no other value exists. Floats are
// drawn once in [low, high) and may coincide with current.
func MutateGene(rng *rand.Rand, kind space.Kind, spec space.Spec, current any, maxAttempts int) (any, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	switch kind {
	case space.KindFixed:
		return mutateFixed(rng, spec, current, maxAttempts)
	case space.KindFlexible:
		return mutateFlexible(rng, spec, current, maxAttempts)
	default:
		return nil, fmt.Errorf("%w: %q", space.ErrUnknownSpaceKind, kind)
	}
}

func mutateFixed(rng *rand.Rand, spec space.Spec, current any, maxAttempts int) (any, error) {
	if spec.IsBinary() {
		return flip(spec.Values, current), nil
	}
	return resample(rng, spec.Values, current, maxAttempts)
}

func mutateFlexible(rng *rand.Rand, spec space.Spec, current any, maxAttempts int) (any, error) {
	switch spec.Type {
	case space.TypeInt:
		return mutateInt(rng, spec, current, maxAttempts)
	case space.TypeFloat:
		return uniformFloat(rng, spec.Low, spec.High), nil
	case space.TypeCategorical:
		if len(spec.Choices) == 2 {
			return flip(spec.Choices, current), nil
		}
		return resample(rng, spec.Choices, current, maxAttempts)
	default:
		return nil, fmt.Errorf("%w: unsupported param type %q", space.ErrInvalidSpace, spec.Type)
	}
}

// flip treats a two-value domain as logical opposites: the first value unless
// current already equals it.
func flip(pair []any, current any) any {
	if !model.GeneEqual(pair[0], current) {
		return pair[0]
	}
	return pair[1]
}

// uniformFloat draws in [low, high), including bounds whose span
// high-low overflows float64.
func uniformFloat(rng *rand.Rand, low, high float64) float64 {
	if low >= high {
		return low
	}
	f := rng.Float64()
	v := low*(1-f) + high*f
	if v >= high {
		v = math.Nextafter(high, low)
	}
	if v < low {
		v = low
	}
	return v
}

func mutateInt(rng *rand.Rand, spec space.Spec, current any, maxAttempts int) (any, error) {
	if spec.IsBooleanInt() {
		if model.GeneEqual(current, 0) {
			return 1, nil
		}
		return 0, nil
	}

	low, high := int64(spec.Low), int64(spec.High)
	if high < low {
		return nil, fmt.Errorf("%w: low %d > high %d", space.ErrInvalidSpace, low, high)
	}
	if low == high {
		return nil, fmt.Errorf("%w: int range [%d, %d]", space.ErrDomainExhausted, low, high)
	}
	span := high - low + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := low + rng.Int63n(span)
		if !model.GeneEqual(candidate, current) {
			return int(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: no new int in [%d, %d] after %d draws", space.ErrDomainExhausted, low, high, maxAttempts)
}

func resample(rng *rand.Rand, values []any, current any, maxAttempts int) (any, error) {
	if !hasAlternative(values, current) {
		return nil, fmt.Errorf("%w: values %v", space.ErrDomainExhausted, values)
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := values[rng.Intn(len(values))]
		if !model.GeneEqual(candidate, current) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: no new value after %d draws", space.ErrDomainExhausted, maxAttempts)
}

func hasAlternative(values []any, current any) bool {
	for _, v := range values {
		if !model.GeneEqual(v, current) {
			return true
		}
	}
	return false
}
