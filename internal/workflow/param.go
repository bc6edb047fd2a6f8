package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// ParameterValue is a tagged union for a tool parameter value. Text
// inputs arrive as strings; Coerce converts them according to the
// declared ParameterType so the per-field type switching lives in one
// place instead of every form handler.
type ParameterValue struct {
	Type    ParameterType
	String  string
	Integer int64
	Number  float64
	Boolean bool
	List    []any
	Object  map[string]any
}

// Interface returns the value as a plain any, suitable for JSON encoding.
func (v ParameterValue) Interface() any {
	switch v.Type {
	case TypeString:
		return v.String
	case TypeInteger:
		return v.Integer
	case TypeNumber:
		return v.Number
	case TypeBoolean:
		return v.Boolean
	case TypeArray:
		return v.List
	case TypeObject:
		return v.Object
	}
	return nil
}

// Coerce converts raw into a ParameterValue of the declared type.
// JSON decoding yields float64 for all numbers, so integer coercion
// accepts float64 values without a fractional part.
func Coerce(t ParameterType, raw any) (ParameterValue, error) {
	switch t {
	case TypeString:
		switch x := raw.(type) {
		case string:
			return ParameterValue{Type: t, String: x}, nil
		default:
			return ParameterValue{Type: t, String: fmt.Sprintf("%v", raw)}, nil
		}

	case TypeInteger:
		switch x := raw.(type) {
		case int:
			return ParameterValue{Type: t, Integer: int64(x)}, nil
		case int64:
			return ParameterValue{Type: t, Integer: x}, nil
		case float64:
			if x != float64(int64(x)) {
				return ParameterValue{}, fmt.Errorf("value %v is not an integer", x)
			}
			return ParameterValue{Type: t, Integer: int64(x)}, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return ParameterValue{}, fmt.Errorf("parse integer %q: %w", x, err)
			}
			return ParameterValue{Type: t, Integer: n}, nil
		}

	case TypeNumber:
		switch x := raw.(type) {
		case int:
			return ParameterValue{Type: t, Number: float64(x)}, nil
		case int64:
			return ParameterValue{Type: t, Number: float64(x)}, nil
		case float64:
			return ParameterValue{Type: t, Number: x}, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return ParameterValue{}, fmt.Errorf("parse number %q: %w", x, err)
			}
			return ParameterValue{Type: t, Number: f}, nil
		}

	case TypeBoolean:
		switch x := raw.(type) {
		case bool:
			return ParameterValue{Type: t, Boolean: x}, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return ParameterValue{}, fmt.Errorf("parse boolean %q: %w", x, err)
			}
			return ParameterValue{Type: t, Boolean: b}, nil
		}

	case TypeArray:
		if x, ok := raw.([]any); ok {
			return ParameterValue{Type: t, List: x}, nil
		}
		return ParameterValue{}, fmt.Errorf("value must be an array, got %T", raw)

	case TypeObject:
		if x, ok := raw.(map[string]any); ok {
			return ParameterValue{Type: t, Object: x}, nil
		}
		return ParameterValue{}, fmt.Errorf("value must be an object, got %T", raw)

	default:
		return ParameterValue{}, fmt.Errorf("unknown parameter type %q", t)
	}
	return ParameterValue{}, fmt.Errorf("cannot coerce %T to %s", raw, t)
}

// ValidateSpec checks that a ParameterSpec's default and enum values are
// coercible to its declared type.
func ValidateSpec(name string, spec ParameterSpec) error {
	switch spec.Type {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
	default:
		return fmt.Errorf("parameter %s: unknown type %q", name, spec.Type)
	}
	if spec.Default != nil {
		if _, err := Coerce(spec.Type, spec.Default); err != nil {
			return fmt.Errorf("parameter %s: default: %w", name, err)
		}
	}
	for _, v := range spec.Enum {
		if _, err := Coerce(spec.Type, v); err != nil {
			return fmt.Errorf("parameter %s: enum value: %w", name, err)
		}
	}
	return nil
}
