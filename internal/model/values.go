package model

import (
	"math"
	"reflect"
)

// GeneEqual reports whether two gene values are the same. Numeric values are
// compared by value across Go numeric types, so a genome decoded from JSON
// (float64) still matches an int domain. Integral pairs compare as int64 so
// values above 2^53 stay distinct. Everything else falls back to ==, and
// non-comparable values are never equal.
func GeneEqual(a, b any) bool {
	if ai, ok := AsInt(a); ok {
		if bi, ok := AsInt(b); ok {
			return ai == bi
		}
	}
	if af, ok := AsFloat(a); ok {
		if bf, ok := AsFloat(b); ok {
			return af == bf
		}
		return false
	}
	if _, ok := AsFloat(b); ok {
		return false
	}
	if !Comparable(a) || !Comparable(b) {
		return false
	}
	return a == b
}

// Comparable reports whether v can be used as a gene value in equality checks.
func Comparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// AsFloat converts any Go numeric value to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// AsInt converts an integral numeric value to int64. Floats are accepted only
// when they hold a whole number, which is how JSON delivers integers.
func AsInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
		if math.Trunc(x) != x || math.IsInf(x, 0) || x >= math.MaxInt64 || x < math.MinInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return AsInt(float64(x))
	default:
		return 0, false
	}
}
