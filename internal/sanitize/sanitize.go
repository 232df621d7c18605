// Package sanitize normalizes arbitrary in-memory values into strictly valid,
// finite JSON values.
//
// Every success payload handed back to a caller passes through Value first, so
// downstream consumers (agents, HTTP clients) never see NaN, Infinity, or a
// type encoding/json cannot marshal. The function is total: a value it cannot
// make sense of is returned unchanged, and an unexpected internal fault
// degrades the offending sub-value to nil instead of failing the whole call.
package sanitize

import (
	"encoding/json"
	"math"
	"reflect"
	"time"
)

// Value returns a JSON-safe equivalent of v.
//
// Rules:
//   - NaN and ±Inf floats become nil
//   - float32 and json.Number unwrap to their native numeric equivalent
//   - time.Time becomes an RFC 3339 string
//   - maps recurse on values, keys unchanged
//   - slices and arrays recurse on elements (strings and byte slices excluded)
//   - everything else is returned unchanged
func Value(v any) (out any) {
	// A single bad field must not corrupt an entire response.
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	return value(v)
}

func value(v any) any {
	if v == nil {
		return nil
	}

	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		return value(float64(t))
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return value(f)
		}
		return t.String()
	case bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t
	case []byte:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = Value(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = Value(e)
		}
		return s
	}

	return reflected(v)
}

// reflected handles typed containers ([]float64, map[string]int, custom slice
// types, pointers) that did not match a concrete case above.
func reflected(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Value(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = Value(rv.Index(i).Interface())
		}
		return s
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = Value(iter.Value().Interface())
		}
		return m
	case reflect.Float32, reflect.Float64:
		return value(rv.Float())
	}
	return v
}
