package tmpl

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// PathSeparator splits dotted paths.
const PathSeparator = "."

// TextFields are the keys consulted, in order, when a mapping is
// substituted into text.
var TextFields = []string{"text", "content", "value", "name", "title"}

// Resolve looks up a dotted path such as "exp.bullets" in the scope chain.
// The first segment is bound by the innermost scope that defines it; later
// segments walk into mappings (string keys) or lists (integer index).
// A missing segment, a malformed path or a nil midway yields (nil, false).
func Resolve(s *Scope, path string) (interface{}, bool) {
	if s == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, PathSeparator)
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}

	cur, ok := s.Lookup(parts[0])
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		cur, ok = child(cur, part)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func child(v interface{}, key string) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		out, ok := t[key]
		return out, ok
	case map[string]string:
		out, ok := t[key]
		return out, ok
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// asList returns the elements of an ordered list value.
func asList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return t, true
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Truthy reports whether a resolved value enables a conditional block.
// Absent values, nil, false, empty strings and empty lists are falsy;
// everything else, including 0 and empty mappings, is truthy.
func Truthy(v interface{}, found bool) bool {
	if !found || v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Stringify converts a resolved value into substitution text.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Map:
		return mapText(rv)
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s := Stringify(rv.Index(i).Interface()); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

// mapText prefers a conventional text-bearing field and otherwise joins the
// mapping's values in key order.
func mapText(rv reflect.Value) string {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Sprint(rv.Interface())
	}
	keyType := rv.Type().Key()
	for _, field := range TextFields {
		mv := rv.MapIndex(reflect.ValueOf(field).Convert(keyType))
		if !mv.IsValid() {
			continue
		}
		if s := Stringify(mv.Interface()); s != "" {
			return s
		}
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := Stringify(rv.MapIndex(reflect.ValueOf(k).Convert(keyType)).Interface()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
