// Package values converts loosely typed config values, as decoded from
// TOML or set from the command line, into the types settings need.
// Every function returns the zero value when v has another type.
package values

// String returns v if it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Bool returns v if it is a bool.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Int accepts Go ints, TOML's int64 and whole float64s from JSON.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return 0
}

// Float accepts any of the numeric types Int does.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Strings accepts []string, or []any keeping only its string elements.
func Strings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
