package space

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"genopt/internal/model"
)

var (
	ErrInvalidSpace     = errors.New("invalid search space")
	ErrDomainExhausted  = errors.New("parameter domain has fewer than two distinct values")
	ErrUnknownSpaceKind = errors.New("unknown search space kind")
)

// Kind selects which Spec family a space's params use.
type Kind string

const (
	KindFixed    Kind = "fixed"
	KindFlexible Kind = "flexible"
)

// ParseKind accepts the canonical names and the legacy "*_search" spellings.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fixed", "fixed_search", "fixed-search":
		return KindFixed, nil
	case "flexible", "flexible_search", "flexible-search":
		return KindFlexible, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSpaceKind, name)
	}
}

// Type tags a flexible parameter.
type Type string

const (
	TypeInt         Type = "int"
	TypeFloat       Type = "float"
	TypeCategorical Type = "categorical"
)

// maxExactInt bounds int params so they survive the float64 round trip.
const maxExactInt = 1 << 53

// Spec describes the legal domain of one gene. Fixed spaces use Values;
// flexible spaces use Type with Low/High or Choices.
type Spec struct {
	Values []any

	Type    Type
	Low     float64
	High    float64
	Choices []any
}

func Fixed(values ...any) Spec {
	return Spec{Values: values}
}

func Int(low, high int) Spec {
	return Spec{Type: TypeInt, Low: float64(low), High: float64(high)}
}

func Float(low, high float64) Spec {
	return Spec{Type: TypeFloat, Low: low, High: high}
}

func Categorical(choices ...any) Spec {
	return Spec{Type: TypeCategorical, Choices: choices}
}

// IsBinary reports whether a fixed spec is mutated by flipping.
func (s Spec) IsBinary() bool {
	return len(s.Values) == 2
}

// IsBooleanInt reports whether a flexible int spec has bounds exactly {0,1}.
func (s Spec) IsBooleanInt() bool {
	return s.Type == TypeInt && s.Low == 0 && s.High == 1
}

// Contains reports whether v lies in the spec's domain.
func (s Spec) Contains(kind Kind, v any) bool {
	if kind == KindFixed {
		return containsValue(s.Values, v)
	}
	switch s.Type {
	case TypeInt:
		n, ok := model.AsInt(v)
		return ok && float64(n) >= s.Low && float64(n) <= s.High
	case TypeFloat:
		f, ok := model.AsFloat(v)
		return ok && f >= s.Low && f <= s.High
	case TypeCategorical:
		return containsValue(s.Choices, v)
	default:
		return false
	}
}

// Validate checks the spec against the family selected by kind.
func (s Spec) Validate(kind Kind) error {
	switch kind {
	case KindFixed:
		if s.Type != "" || len(s.Choices) > 0 {
			return fmt.Errorf("%w: fixed params take a list of values", ErrInvalidSpace)
		}
		return validateValues(s.Values)
	case KindFlexible:
		if len(s.Values) > 0 {
			return fmt.Errorf("%w: flexible params take a typed spec, not a value list", ErrInvalidSpace)
		}
		return s.validateFlexible()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSpaceKind, kind)
	}
}

func (s Spec) validateFlexible() error {
	switch s.Type {
	case TypeInt:
		if !isWhole(s.Low) || !isWhole(s.High) {
			return fmt.Errorf("%w: int bounds must be whole numbers, got low=%v high=%v", ErrInvalidSpace, s.Low, s.High)
		}
		if math.Abs(s.Low) > maxExactInt || math.Abs(s.High) > maxExactInt {
			return fmt.Errorf("%w: int bounds exceed ±2^53", ErrInvalidSpace)
		}
		if s.Low > s.High {
			return fmt.Errorf("%w: low %v > high %v", ErrInvalidSpace, s.Low, s.High)
		}
		if s.Low == s.High {
			return fmt.Errorf("%w: int range [%v, %v]", ErrDomainExhausted, s.Low, s.High)
		}
		return nil
	case TypeFloat:
		if math.IsNaN(s.Low) || math.IsNaN(s.High) || math.IsInf(s.Low, 0) || math.IsInf(s.High, 0) {
			return fmt.Errorf("%w: float bounds must be finite", ErrInvalidSpace)
		}
		if s.Low > s.High {
			return fmt.Errorf("%w: low %v > high %v", ErrInvalidSpace, s.Low, s.High)
		}
		return nil
	case TypeCategorical:
		if len(s.Choices) == 0 {
			return fmt.Errorf("%w: categorical param requires choices", ErrInvalidSpace)
		}
		return validateValues(s.Choices)
	case "":
		return fmt.Errorf("%w: flexible param requires a type", ErrInvalidSpace)
	default:
		return fmt.Errorf("%w: unsupported param type %q", ErrInvalidSpace, s.Type)
	}
}

func validateValues(values []any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: empty value list", ErrInvalidSpace)
	}
	for _, v := range values {
		if !model.Comparable(v) {
			return fmt.Errorf("%w: value %v is not comparable", ErrInvalidSpace, v)
		}
	}
	if distinctCount(values) < 2 {
		return fmt.Errorf("%w: values %v", ErrDomainExhausted, values)
	}
	return nil
}

// Param binds a gene name to its domain.
type Param struct {
	Name string
	Spec Spec
}

// Space is the ordered parameter declaration. Params[i] describes gene i.
type Space struct {
	Kind   Kind
	Params []Param
}

func (s Space) Len() int {
	return len(s.Params)
}

func (s Space) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// Lookup resolves a parameter by name.
func (s Space) Lookup(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (s Space) Validate() error {
	if s.Kind != KindFixed && s.Kind != KindFlexible {
		return fmt.Errorf("%w: %q", ErrUnknownSpaceKind, s.Kind)
	}
	if len(s.Params) == 0 {
		return fmt.Errorf("%w: no params declared", ErrInvalidSpace)
	}
	seen := make(map[string]struct{}, len(s.Params))
	for i, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("%w: param %d has no name", ErrInvalidSpace, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate param %q", ErrInvalidSpace, p.Name)
		}
		seen[p.Name] = struct{}{}
		if err := p.Spec.Validate(s.Kind); err != nil {
			return fmt.Errorf("param %q: %w", p.Name, err)
		}
	}
	return nil
}

// CheckGenome reports genes whose current value is outside the declared
// domain. Mutation itself tolerates such values.
func (s Space) CheckGenome(genome model.Genome) error {
	if len(genome) != len(s.Params) {
		return fmt.Errorf("%w: genome has %d genes, space declares %d params", ErrInvalidSpace, len(genome), len(s.Params))
	}
	var errs []error
	for i, p := range s.Params {
		if !p.Spec.Contains(s.Kind, genome[i]) {
			errs = append(errs, fmt.Errorf("gene %d (%s): value %v outside domain", i, p.Name, genome[i]))
		}
	}
	return errors.Join(errs...)
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if model.GeneEqual(candidate, v) {
			return true
		}
	}
	return false
}

func distinctCount(values []any) int {
	distinct := make([]any, 0, len(values))
	for _, v := range values {
		if !containsValue(distinct, v) {
			distinct = append(distinct, v)
		}
	}
	return len(distinct)
}

func isWhole(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
}
