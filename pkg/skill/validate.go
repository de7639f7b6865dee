package skill

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validation error kinds. These are the wire values carried in error envelopes.
const (
	KindMissingParameter = "MissingParameter"
	KindTypeMismatch     = "TypeMismatch"
	KindOutOfRange       = "OutOfRange"
	KindUnknownParameter = "UnknownParameter"
)

// ValidationError is a structured schema violation for a single parameter.
type ValidationError struct {
	Kind    string `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s - %s", e.Kind, e.Field, e.Message)
}

// Validate checks a raw parameter mapping against the skill's schema and
// returns validated params with defaults filled in, in schema declaration
// order. The schema is closed: keys absent from it are rejected rather than
// silently ignored, so typos never reach the engine.
func Validate(spec *SkillSpec, raw map[string]any) (*Params, error) {
	// Reject unknown keys first, in sorted order for deterministic reporting.
	unknown := make([]string, 0)
	for key := range raw {
		if spec.Param(key) == nil {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{
			Kind:    KindUnknownParameter,
			Field:   unknown[0],
			Message: fmt.Sprintf("parameter %q is not declared by skill %q", unknown[0], spec.Name),
		}
	}

	params := newParams(len(spec.Params))
	for i := range spec.Params {
		ps := &spec.Params[i]
		value, present := raw[ps.Name]
		if !present {
			if ps.Default != nil {
				coerced, err := coerceValue(ps, ps.Default)
				if err != nil {
					return nil, err
				}
				params.set(ps.Name, coerced)
				continue
			}
			if ps.Required {
				return nil, &ValidationError{
					Kind:    KindMissingParameter,
					Field:   ps.Name,
					Message: fmt.Sprintf("required parameter %q is missing", ps.Name),
				}
			}
			continue
		}

		coerced, err := coerceValue(ps, value)
		if err != nil {
			return nil, err
		}
		params.set(ps.Name, coerced)
	}

	return params, nil
}

// coerceValue type-checks a single value against its spec and returns the
// canonical Go representation. Wrong Go type is a TypeMismatch; right type
// with a disallowed value (range, enum set, tuple arity) is OutOfRange.
func coerceValue(ps *ParamSpec, value any) (any, error) {
	switch ps.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(ps, value, "string")
		}
		if ps.NonEmpty && strings.TrimSpace(s) == "" {
			return nil, outOfRange(ps, "must not be empty")
		}
		return s, nil

	case TypeFloat:
		f, ok := asFloat(value)
		if !ok {
			return nil, typeMismatch(ps, value, "number")
		}
		if err := checkRange(ps, f); err != nil {
			return nil, err
		}
		return f, nil

	case TypeInt:
		n, ok := asInt(value)
		if !ok {
			return nil, typeMismatch(ps, value, "integer")
		}
		if err := checkRange(ps, float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(ps, value, "bool")
		}
		return b, nil

	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(ps, value, "string")
		}
		for _, allowed := range ps.Allowed {
			if strings.EqualFold(s, allowed) {
				// Canonical spelling from the schema, matching the engine's
				// expectations (lowercase primitive types, uppercase axes).
				return allowed, nil
			}
		}
		return nil, outOfRange(ps, fmt.Sprintf("%q is not one of %s", s, strings.Join(ps.Allowed, ", ")))

	case TypeVec3:
		vec, err := asVec3(ps, value)
		if err != nil {
			return nil, err
		}
		for _, c := range vec {
			if err := checkRange(ps, c); err != nil {
				return nil, err
			}
		}
		return vec, nil

	case TypeIntList:
		list, err := asIntList(ps, value)
		if err != nil {
			return nil, err
		}
		if ps.NonEmpty && len(list) == 0 {
			return nil, outOfRange(ps, "must not be empty")
		}
		return list, nil
	}

	return nil, typeMismatch(ps, value, string(ps.Type))
}

func checkRange(ps *ParamSpec, f float64) error {
	if ps.Min != nil {
		if f < *ps.Min || (ps.ExclusiveMin && f == *ps.Min) {
			return outOfRange(ps, fmt.Sprintf("%v is below minimum %v", f, *ps.Min))
		}
	}
	if ps.Max != nil && f > *ps.Max {
		return outOfRange(ps, fmt.Sprintf("%v is above maximum %v", f, *ps.Max))
	}
	return nil
}

func typeMismatch(ps *ParamSpec, value any, want string) *ValidationError {
	return &ValidationError{
		Kind:    KindTypeMismatch,
		Field:   ps.Name,
		Message: fmt.Sprintf("expected %s, got %T", want, value),
	}
}

func outOfRange(ps *ParamSpec, detail string) *ValidationError {
	return &ValidationError{
		Kind:    KindOutOfRange,
		Field:   ps.Name,
		Message: detail,
	}
}

// asFloat accepts the numeric shapes produced by JSON decoding and Go callers.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// asInt accepts ints and integral floats (JSON numbers decode as float64).
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

func asVec3(ps *ParamSpec, value any) ([3]float64, error) {
	var out [3]float64
	switch v := value.(type) {
	case [3]float64:
		return v, nil
	case []float64:
		if len(v) != 3 {
			return out, outOfRange(ps, fmt.Sprintf("expected 3 components, got %d", len(v)))
		}
		copy(out[:], v)
		return out, nil
	case []any:
		if len(v) != 3 {
			return out, outOfRange(ps, fmt.Sprintf("expected 3 components, got %d", len(v)))
		}
		for i, elem := range v {
			f, ok := asFloat(elem)
			if !ok {
				return out, typeMismatch(ps, elem, "number component")
			}
			out[i] = f
		}
		return out, nil
	}
	return out, typeMismatch(ps, value, "3-tuple of numbers")
}

func asIntList(ps *ParamSpec, value any) ([]int, error) {
	switch v := value.(type) {
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]int, len(v))
		for i, elem := range v {
			n, ok := asInt(elem)
			if !ok {
				return nil, typeMismatch(ps, elem, "integer element")
			}
			out[i] = n
		}
		return out, nil
	case []float64:
		out := make([]int, len(v))
		for i, f := range v {
			n, ok := asInt(f)
			if !ok {
				return nil, typeMismatch(ps, f, "integer element")
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, typeMismatch(ps, value, "list of integers")
}
