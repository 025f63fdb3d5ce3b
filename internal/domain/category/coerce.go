package category

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var placeholderTokens = map[string]struct{}{
	"":    {},
	"--":  {},
	"-":   {},
	"N/A": {},
}

// Coerce normalizes one raw stat value. Empty and placeholder values become 0,
// numbers become int64 when integral and float64 otherwise, and any other text
// is returned unchanged so combined values like "3/5" survive.
func Coerce(raw any) any {
	switch v := raw.(type) {
	case nil:
		return int64(0)
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return normalizeFloat(v)
	case float32:
		return normalizeFloat(float64(v))
	case json.Number:
		return coerceText(v.String(), v.String())
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case string:
		return coerceText(v, strings.TrimSpace(v))
	default:
		return int64(0)
	}
}

func coerceText(original, trimmed string) any {
	if _, ok := placeholderTokens[trimmed]; ok {
		return int64(0)
	}
	cleaned := strings.ReplaceAll(trimmed, ",", "")
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return trimmed
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return int64(0)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// IsZero reports whether a coerced value counts as empty for fallback chains.
func IsZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case int64:
		return t == 0
	case float64:
		return t == 0
	case string:
		return t == ""
	}
	return false
}

// FormatNumber renders a coerced value inside a combined field.
func FormatNumber(v any) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	}
	return "0"
}
