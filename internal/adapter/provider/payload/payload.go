// Package payload reads third-party JSON without trusting its shape.
// Every accessor returns a zero value on a type mismatch instead of failing,
// so a partly malformed payload still yields whatever is usable.
package payload

import (
	"encoding/json"
	"strings"
)

// Decode parses raw JSON into generic values.
func Decode(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Object returns v as a JSON object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns v as a JSON array, or nil.
func List(v any) []any {
	l, _ := v.([]any)
	return l
}

// Objects returns the object elements of the array v, skipping anything else.
func Objects(v any) []map[string]any {
	var out []map[string]any
	for _, item := range List(v) {
		if m, ok := Object(item); ok {
			out = append(out, m)
		}
	}
	return out
}

// String returns v trimmed if it is a JSON string, else "".
func String(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Bool returns v if it is a JSON boolean; ok is false otherwise.
func Bool(v any) (value, ok bool) {
	value, ok = v.(bool)
	return value, ok
}
