// Package jsonutil navigates decoded JSON (map[string]any trees) defensively.
// Accessors report absence through an ok return instead of panicking on shape
// mismatches, so callers decide whether a missing field is fatal.
package jsonutil

import "strconv"

// Object returns m[key] when it holds a JSON object.
func Object(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Array returns m[key] when it holds a JSON array.
func Array(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// String returns m[key] when it holds a JSON string.
func String(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns m[key] as a string, or def when absent or not a string.
func StringOr(m map[string]any, key, def string) string {
	if s, ok := String(m, key); ok {
		return s
	}
	return def
}

// Number returns m[key] as an int64 when it holds a JSON number, or a string
// that parses as one. Engines report some numeric fields as quoted strings.
func Number(m map[string]any, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// NumberOr returns m[key] as an int64, or def when absent or non-numeric.
func NumberOr(m map[string]any, key string, def int64) int64 {
	if n, ok := Number(m, key); ok {
		return n
	}
	return def
}

// PrimitiveString renders a JSON scalar as its string form. Objects and
// arrays report false.
func PrimitiveString(v any) (string, bool) {
	switch p := v.(type) {
	case string:
		return p, true
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(p), true
	default:
		return "", false
	}
}
