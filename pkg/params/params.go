package params

import (
	"fmt"
	"math"
	"reflect"
)

// Params is the plain, recursive parameter bag passed to guards,
// attached to published state, and round-tripped through the matcher.
// Values are restricted to strings, bools, finite numbers, []any, and
// nested Params/map[string]any — see Validate.
type Params map[string]any

// Validate reports whether p satisfies the Params contract: no
// functions, no channels, no struct/class instances, no cycles, and no
// non-finite (NaN/Inf) numbers.
//
// The check runs in two phases to keep the common case cheap: a flat
// fast path handles the overwhelmingly common case of a shallow bag of
// strings/numbers/bools without allocating a visited set, falling back
// to the recursive, cycle-safe check only when a nested container is
// present.
func Validate(p Params) error {
	flatOnly := true
	for _, v := range p {
		if isContainer(v) {
			flatOnly = false
			break
		}
		if err := validateScalar(v); err != nil {
			return err
		}
	}
	if flatOnly {
		return nil
	}

	seen := make(map[uintptr]bool)
	for k, v := range p {
		if err := validateValue(v, seen); err != nil {
			return fmt.Errorf("params[%q]: %w", k, err)
		}
	}
	return nil
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, Params, []any:
		return true
	}
	return false
}

func validateScalar(v any) error {
	switch x := v.(type) {
	case nil, string, bool:
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("non-finite number %v", x)
		}
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("non-finite number %v", x)
		}
		return nil
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
}

func validateValue(v any, seen map[uintptr]bool) error {
	switch x := v.(type) {
	case map[string]any:
		return validateMap(x, seen)
	case Params:
		return validateMap(map[string]any(x), seen)
	case []any:
		return validateSlice(x, seen)
	default:
		return validateScalar(v)
	}
}

func validateMap(m map[string]any, seen map[uintptr]bool) error {
	ptr := reflect.ValueOf(m).Pointer()
	if seen[ptr] {
		return fmt.Errorf("cyclic params detected")
	}
	seen[ptr] = true
	for k, v := range m {
		if err := validateValue(v, seen); err != nil {
			return fmt.Errorf("%q: %w", k, err)
		}
	}
	delete(seen, ptr)
	return nil
}

func validateSlice(s []any, seen map[uintptr]bool) error {
	if len(s) > 0 {
		ptr := reflect.ValueOf(s).Pointer()
		if seen[ptr] {
			return fmt.Errorf("cyclic params detected")
		}
		seen[ptr] = true
		defer delete(seen, ptr)
	}
	for i, v := range s {
		if err := validateValue(v, seen); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// Clone deep-copies p. The routing engine calls Clone before publishing
// a state so that a caller mutating the Params they passed in cannot
// retroactively change published state, and again when handing Params
// back out so that callers mutating the returned value cannot corrupt
// engine-internal state. This is the freeze contract in the absence of
// language-level immutability: once cloned in, the engine never mutates
// its copy, and every copy handed out is fresh.
func Clone(p Params) Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return map[string]any(Clone(Params(x)))
	case Params:
		return Clone(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Freeze deep-copies p like Clone, but memoizes by source pointer
// identity within the call so a nested map or slice referenced more
// than once in the same value graph (a shared defaultParams object, for
// instance) is only walked and copied once. The memo is scoped to this
// single call — it is not retained across calls, since caching by
// pointer identity across the lifetime of a long-running process risks
// aliasing a freed and reused address.
func Freeze(p Params) Params {
	memo := make(map[uintptr]any)
	return freezeMap(p, memo)
}

func freezeMap(m map[string]any, memo map[uintptr]any) Params {
	if m == nil {
		return nil
	}
	ptr := reflect.ValueOf(m).Pointer()
	if cached, ok := memo[ptr]; ok {
		return cached.(Params)
	}
	out := make(Params, len(m))
	memo[ptr] = out // pre-register before recursing to tolerate self-reference
	for k, v := range m {
		out[k] = freezeValue(v, memo)
	}
	return out
}

func freezeValue(v any, memo map[uintptr]any) any {
	switch x := v.(type) {
	case map[string]any:
		return freezeMap(x, memo)
	case Params:
		return freezeMap(map[string]any(x), memo)
	case []any:
		if len(x) == 0 {
			return []any{}
		}
		ptr := reflect.ValueOf(x).Pointer()
		if cached, ok := memo[ptr]; ok {
			return cached.([]any)
		}
		out := make([]any, len(x))
		memo[ptr] = out
		for i, e := range x {
			out[i] = freezeValue(e, memo)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are deeply, structurally equal. Used by
// the "same state" check, which compares params including query-derived
// keys but ignores meta.
func Equal(a, b Params) bool {
	return equalValue(map[string]any(a), map[string]any(b))
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !equalValue(v, bvv) {
				return false
			}
		}
		return true
	case Params:
		return equalValue(map[string]any(av), b)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Merge returns a new Params with override's keys taking precedence over
// base's. Used when merging matched path params with a route's
// defaultParams ("matched params win").
func Merge(base, override Params) Params {
	out := make(Params, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
