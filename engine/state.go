package engine

// State is a mapping from string keys to values, transformed by rules.
// States are treated as values: every transformation produces a new map,
// and no component may mutate a state it did not itself just construct.
type State map[string]any

// Clone returns a deep copy of the state. Nested map[string]any, State and
// []any substructure is copied recursively; scalar values are shared, which
// is safe because they are immutable.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// Float reads a numeric key, coercing the integer and float types that
// rules commonly store. The second return is false when the key is missing
// or not numeric.
func (s State) Float(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case State:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
