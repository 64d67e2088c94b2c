package space

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type flexibleSpecJSON struct {
	Type    Type     `json:"type"`
	Low     *float64 `json:"low,omitempty"`
	High    *float64 `json:"high,omitempty"`
	Choices []any    `json:"choices,omitempty"`
}

// MarshalJSON writes fixed specs as a value list and flexible specs as a
// typed object.
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.Type == "" {
		if s.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.Values)
	}
	out := flexibleSpecJSON{Type: s.Type}
	switch s.Type {
	case TypeInt, TypeFloat:
		low, high := s.Low, s.High
		out.Low, out.High = &low, &high
	default:
		out.Choices = s.Choices
	}
	return json.Marshal(out)
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var values []any
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*s = Spec{Values: values}
		return nil
	}

	var raw flexibleSpecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec := Spec{Type: raw.Type, Choices: raw.Choices}
	switch raw.Type {
	case TypeInt, TypeFloat:
		if raw.Low == nil || raw.High == nil {
			return fmt.Errorf("%w: %s param requires low and high", ErrInvalidSpace, raw.Type)
		}
		spec.Low, spec.High = *raw.Low, *raw.High
	case TypeCategorical:
		if raw.Choices == nil {
			return fmt.Errorf("%w: categorical param requires choices", ErrInvalidSpace)
		}
	case "":
		return fmt.Errorf("%w: flexible param requires a type", ErrInvalidSpace)
	}
	*s = spec
	return nil
}

// Params is the ordered name->spec declaration. It encodes as a JSON object
// whose key order is the gene order; decoding also accepts an array of
// {"name": ..., "spec": ...} records.
type Params []Param

func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param.Spec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Params) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []struct {
			Name string `json:"name"`
			Spec Spec   `json:"spec"`
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return err
		}
		out := make(Params, 0, len(records))
		for _, r := range records {
			out = append(out, Param{Name: r.Name, Spec: r.Spec})
		}
		*p = out
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: params must be an object or array", ErrInvalidSpace)
	}
	var out Params
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected params key %v", ErrInvalidSpace, tok)
		}
		var spec Spec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		out = append(out, Param{Name: name, Spec: spec})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

type spaceJSON struct {
	Kind   string `json:"kind"`
	Params Params `json:"params"`
}

func (s Space) MarshalJSON() ([]byte, error) {
	return json.Marshal(spaceJSON{Kind: string(s.Kind), Params: s.Params})
}

func (s *Space) UnmarshalJSON(data []byte) error {
	var raw spaceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return err
	}
	*s = Space{Kind: kind, Params: raw.Params}
	return nil
}
