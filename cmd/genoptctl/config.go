package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"genopt/internal/space"
	"genopt/pkg/genopt"
)

// loadMutationConfigFromFile reads a JSON mutation config. Both the
// canonical keys and the legacy mutation_type / prob_mutation /
// search_space_type spellings are accepted; params keep file order.
func loadMutationConfigFromFile(path string) (genopt.MutationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return genopt.MutationConfig{}, err
	}
	return parseMutationConfig(data)
}

func parseMutationConfig(data []byte) (genopt.MutationConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return genopt.MutationConfig{}, err
	}

	var cfg genopt.MutationConfig
	if v, ok := firstString(raw, "mutation_kind", "mutation_type"); ok {
		cfg.Kind = v
	}
	if v, ok := firstFloat64(raw, "probability", "prob_mutation"); ok {
		cfg.Probability = v
	}
	if v, ok := asInt(raw["max_attempts"]); ok {
		cfg.MaxAttempts = v
	}

	if _, nested := raw["search_space"]; nested {
		var wrapper struct {
			SearchSpace space.Space `json:"search_space"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return genopt.MutationConfig{}, fmt.Errorf("search_space: %w", err)
		}
		cfg.SearchSpace = wrapper.SearchSpace
		return cfg, nil
	}

	kindName, ok := firstString(raw, "search_space_kind", "search_space_type")
	if !ok {
		return genopt.MutationConfig{}, errors.New("config requires search_space_kind")
	}
	kind, err := space.ParseKind(kindName)
	if err != nil {
		return genopt.MutationConfig{}, err
	}
	var wrapper struct {
		Params space.Params `json:"params"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return genopt.MutationConfig{}, fmt.Errorf("params: %w", err)
	}
	cfg.SearchSpace = space.Space{Kind: kind, Params: wrapper.Params}
	return cfg, nil
}

func firstString(raw map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := asString(raw[key]); ok {
			return v, true
		}
	}
	return "", false
}

func firstFloat64(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := asFloat64(raw[key]); ok {
			return v, true
		}
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func overrideFromFlags(cfg *genopt.MutationConfig, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "kind":
			cfg.Kind = v.(string)
		case "probability":
			cfg.Probability = v.(float64)
		case "max-attempts":
			cfg.MaxAttempts = v.(int)
		}
	}
}
