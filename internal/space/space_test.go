package space

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"genopt/internal/model"
)

func TestParseKindAcceptsLegacyNames(t *testing.T) {
	for input, want := range map[string]Kind{
		"fixed":           KindFixed,
		"fixed_search":    KindFixed,
		"Flexible":        KindFlexible,
		"flexible_search": KindFlexible,
	} {
		got, err := ParseKind(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", input, got, want)
		}
	}
	if _, err := ParseKind("grid"); !errors.Is(err, ErrUnknownSpaceKind) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestSpecValidate(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		spec    Spec
		wantErr error
	}{
		{name: "fixed binary", kind: KindFixed, spec: Fixed(0, 1)},
		{name: "fixed discrete", kind: KindFixed, spec: Fixed("a", "b", "c")},
		{name: "fixed single value", kind: KindFixed, spec: Fixed(7), wantErr: ErrDomainExhausted},
		{name: "fixed duplicates only", kind: KindFixed, spec: Fixed(2, 2.0), wantErr: ErrDomainExhausted},
		{name: "fixed int64 above 2^53", kind: KindFixed, spec: Fixed(int64(1<<53), int64(1<<53+1))},
		{name: "fixed empty", kind: KindFixed, spec: Fixed(), wantErr: ErrInvalidSpace},
		{name: "fixed with type", kind: KindFixed, spec: Int(0, 3), wantErr: ErrInvalidSpace},
		{name: "int range", kind: KindFlexible, spec: Int(1, 10)},
		{name: "int degenerate", kind: KindFlexible, spec: Int(5, 5), wantErr: ErrDomainExhausted},
		{name: "int inverted", kind: KindFlexible, spec: Int(5, 1), wantErr: ErrInvalidSpace},
		{name: "int fractional", kind: KindFlexible, spec: Spec{Type: TypeInt, Low: 0.5, High: 2}, wantErr: ErrInvalidSpace},
		{name: "float range", kind: KindFlexible, spec: Float(0, 1)},
		{name: "float point", kind: KindFlexible, spec: Float(2, 2)},
		{name: "float full range", kind: KindFlexible, spec: Float(-math.MaxFloat64, math.MaxFloat64)},
		{name: "float inverted", kind: KindFlexible, spec: Float(1, 0), wantErr: ErrInvalidSpace},
		{name: "categorical", kind: KindFlexible, spec: Categorical("relu", "tanh")},
		{name: "categorical single", kind: KindFlexible, spec: Categorical("relu"), wantErr: ErrDomainExhausted},
		{name: "categorical empty", kind: KindFlexible, spec: Categorical(), wantErr: ErrInvalidSpace},
		{name: "missing type", kind: KindFlexible, spec: Spec{}, wantErr: ErrInvalidSpace},
		{name: "unknown type", kind: KindFlexible, spec: Spec{Type: "complex"}, wantErr: ErrInvalidSpace},
		{name: "values in flexible", kind: KindFlexible, spec: Fixed(1, 2), wantErr: ErrInvalidSpace},
		{name: "non comparable", kind: KindFixed, spec: Fixed([]int{1}, []int{2}), wantErr: ErrInvalidSpace},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate(tc.kind)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSpaceValidate(t *testing.T) {
	valid := Space{Kind: KindFlexible, Params: []Param{
		{Name: "lr", Spec: Float(0.001, 0.1)},
		{Name: "layers", Spec: Int(1, 4)},
	}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	dup := Space{Kind: KindFixed, Params: []Param{
		{Name: "g", Spec: Fixed(0, 1)},
		{Name: "g", Spec: Fixed(0, 1)},
	}}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected duplicate param error, got %v", err)
	}

	if err := (Space{Kind: KindFixed}).Validate(); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected empty params error, got %v", err)
	}
	if err := (Space{Kind: "grid", Params: valid.Params}).Validate(); !errors.Is(err, ErrUnknownSpaceKind) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}

	degenerate := Space{Kind: KindFlexible, Params: []Param{{Name: "n", Spec: Int(5, 5)}}}
	if err := degenerate.Validate(); !errors.Is(err, ErrDomainExhausted) {
		t.Fatalf("expected domain exhausted error, got %v", err)
	}
}

func TestCheckGenome(t *testing.T) {
	s := Space{Kind: KindFlexible, Params: []Param{
		{Name: "n", Spec: Int(0, 3)},
		{Name: "x", Spec: Float(-1, 1)},
		{Name: "act", Spec: Categorical("relu", "tanh", "sigmoid")},
	}}
	if err := s.CheckGenome(model.Genome{2, 0.5, "tanh"}); err != nil {
		t.Fatalf("expected in-domain genome, got %v", err)
	}
	if err := s.CheckGenome(model.Genome{9, 0.5, "gelu"}); err == nil {
		t.Fatal("expected out-of-domain error")
	}
	if err := s.CheckGenome(model.Genome{1}); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected length mismatch error, got %v", err)
	}
}

func TestParamsJSONPreservesDeclarationOrder(t *testing.T) {
	payload := []byte(`{
		"kind": "flexible_search",
		"params": {
			"zeta": {"type": "int", "low": 0, "high": 10},
			"alpha": {"type": "float", "low": 0.5, "high": 1.5},
			"mid": {"type": "categorical", "choices": ["a", "b", "c"]}
		}
	}`)
	var s Space
	if err := json.Unmarshal(payload, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Kind != KindFlexible {
		t.Fatalf("unexpected kind %q", s.Kind)
	}
	if got, want := s.Names(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("param order got %v want %v", got, want)
	}
	if p, _ := s.Lookup("alpha"); p.Spec.Type != TypeFloat || p.Spec.Low != 0.5 || p.Spec.High != 1.5 {
		t.Fatalf("unexpected alpha spec: %+v", p.Spec)
	}

	encoded, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Space
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("unmarshal encoded: %v", err)
	}
	if !reflect.DeepEqual(again.Names(), s.Names()) {
		t.Fatalf("order lost in round trip: %s", encoded)
	}
}

func TestParamsJSONFixedAndArrayForms(t *testing.T) {
	var fixed Params
	if err := json.Unmarshal([]byte(`{"g1": [0, 1], "g2": ["x", "y", "z"]}`), &fixed); err != nil {
		t.Fatalf("unmarshal fixed: %v", err)
	}
	if len(fixed) != 2 || !fixed[0].Spec.IsBinary() || len(fixed[1].Spec.Values) != 3 {
		t.Fatalf("unexpected fixed params: %+v", fixed)
	}

	var records Params
	if err := json.Unmarshal([]byte(`[{"name": "b", "spec": [1, 2, 3]}, {"name": "a", "spec": {"type": "int", "low": 0, "high": 1}}]`), &records); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}
	if records[0].Name != "b" || records[1].Name != "a" || !records[1].Spec.IsBooleanInt() {
		t.Fatalf("unexpected record params: %+v", records)
	}
}

func TestSpecJSONRejectsMissingKeys(t *testing.T) {
	var spec Spec
	if err := json.Unmarshal([]byte(`{"type": "int", "low": 1}`), &spec); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected missing high error, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"type": "categorical"}`), &spec); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected missing choices error, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"low": 0, "high": 1}`), &spec); !errors.Is(err, ErrInvalidSpace) {
		t.Fatalf("expected missing type error, got %v", err)
	}
}
