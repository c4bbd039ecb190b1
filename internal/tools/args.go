package tools

import (
	"encoding/json"
	"math"
)

// Args are the decoded arguments of one tool call. Accessors treat a missing
// key, a JSON null and a value of the wrong type the same way: absent.
type Args map[string]any

// Has reports whether key is present and not null.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the string at key, or "".
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Number returns the numeric value at key.
func (a Args) Number(key string) (float64, bool) {
	return toFloat(a[key])
}

// Int returns the value at key when it is an integral number that fits in
// an int64.
func (a Args) Int(key string) (int64, bool) {
	f, ok := toFloat(a[key])
	if !ok || f != math.Trunc(f) || !fitsInt64(f) {
		return 0, false
	}
	return int64(f), true
}

// fitsInt64 reports whether f converts to int64 without overflow.
// float64(math.MaxInt64) rounds up to 2^63, hence the strict upper bound.
func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

// Bool returns a pointer to the boolean at key, or nil when absent.
func (a Args) Bool(key string) *bool {
	b, ok := a[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

// Strings returns the string elements of the array at key. Non-string
// elements are skipped.
func (a Args) Strings(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
