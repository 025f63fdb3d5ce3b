// Package jsonpath gives absent-or-present access into untyped JSON trees
// decoded into map[string]any / []any.
package jsonpath

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is the result of a lookup. The zero Value is absent.
type Value struct {
	raw     any
	present bool
}

// Of wraps an already-decoded node.
func Of(raw any) Value {
	return Value{raw: raw, present: raw != nil}
}

// Get walks root by keys. A string key indexes an object, an int key indexes an
// array. Any miss along the way yields an absent Value.
func Get(root any, keys ...any) Value {
	cur := root
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return Value{}
			}
			next, ok := obj[k]
			if !ok {
				return Value{}
			}
			cur = next
		case int:
			arr, ok := cur.([]any)
			if !ok || k < 0 || k >= len(arr) {
				return Value{}
			}
			cur = arr[k]
		default:
			return Value{}
		}
	}
	return Of(cur)
}

// Get continues the walk from v.
func (v Value) Get(keys ...any) Value {
	if !v.present {
		return Value{}
	}
	return Get(v.raw, keys...)
}

// First returns the first present, non-empty candidate.
func First(candidates ...Value) Value {
	for _, c := range candidates {
		if !c.Empty() {
			return c
		}
	}
	return Value{}
}

func (v Value) Present() bool { return v.present }

func (v Value) Raw() any { return v.raw }

// Empty reports absent values, empty strings and empty containers.
func (v Value) Empty() bool {
	if !v.present {
		return true
	}
	switch t := v.raw.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Map returns the node as an object.
func (v Value) Map() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok
}

// Slice returns the node as an array.
func (v Value) Slice() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok
}

// Maps returns the object elements of an array, dropping anything else.
func (v Value) Maps() []map[string]any {
	s, ok := v.Slice()
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(s))
	for _, item := range s {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// String renders scalars as text. Ids are often numbers upstream, so numbers
// are formatted rather than rejected.
func (v Value) String() (string, bool) {
	if !v.present {
		return "", false
	}
	switch t := v.raw.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// StringOr returns the trimmed text or fallback.
func (v Value) StringOr(fallback string) string {
	s, ok := v.String()
	if !ok {
		return fallback
	}
	return strings.TrimSpace(s)
}

// Bool follows JSON truthiness for the shapes upstream feeds use.
func (v Value) Bool() bool {
	if !v.present {
		return false
	}
	switch t := v.raw.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return false
}

// Int parses the node as an integer. Fractional numbers truncate.
func (v Value) Int() (int64, bool) {
	if !v.present {
		return 0, false
	}
	switch t := v.raw.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}
