package tmpl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	root := NewScope(map[string]interface{}{
		"name": "Ada",
		"experience": []interface{}{
			map[string]interface{}{"company": "Acme", "bullets": []interface{}{"one", "two"}},
		},
		"contact": map[string]string{"email": "ada@example.com"},
		"empty":   nil,
	})

	t.Run("simple key", func(t *testing.T) {
		v, ok := Resolve(root, "name")
		assert.True(t, ok)
		assert.Equal(t, "Ada", v)
	})

	t.Run("nested path through list index", func(t *testing.T) {
		v, ok := Resolve(root, "experience.0.company")
		assert.True(t, ok)
		assert.Equal(t, "Acme", v)
	})

	t.Run("typed map", func(t *testing.T) {
		v, ok := Resolve(root, "contact.email")
		assert.True(t, ok)
		assert.Equal(t, "ada@example.com", v)
	})

	t.Run("absent paths never panic", func(t *testing.T) {
		for _, p := range []string{"", "missing", "name.first", "experience.7.company", "empty.x", "a..b", "."} {
			_, ok := Resolve(root, p)
			assert.False(t, ok, p)
		}
		_, ok := Resolve(nil, "name")
		assert.False(t, ok)
	})

	t.Run("inner binding shadows outer", func(t *testing.T) {
		inner := root.Child(map[string]interface{}{"name": "Grace"})
		v, _ := Resolve(inner, "name")
		assert.Equal(t, "Grace", v)

		v, _ = Resolve(root, "name")
		assert.Equal(t, "Ada", v)

		v, ok := Resolve(inner, "experience.0.company")
		assert.True(t, ok)
		assert.Equal(t, "Acme", v)
	})
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		name  string
		v     interface{}
		found bool
		want  bool
	}{
		{"absent", nil, false, false},
		{"nil", nil, true, false},
		{"false", false, true, false},
		{"true", true, true, true},
		{"empty string", "", true, false},
		{"string", "x", true, true},
		{"empty list", []interface{}{}, true, false},
		{"list", []string{"a"}, true, true},
		{"zero", 0, true, true},
		{"empty map", map[string]interface{}{}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truthy(tc.v, tc.found))
		})
	}
}

func TestStringify(t *testing.T) {
	type label string

	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "abc", Stringify("abc"))
	assert.Equal(t, "3", Stringify(3))
	assert.Equal(t, "3", Stringify(float64(3)))
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "42", Stringify(json.Number("42")))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "tagged", Stringify(label("tagged")))
	assert.Equal(t, "Go, SQL", Stringify([]interface{}{"Go", "SQL"}))

	t.Run("mapping prefers text fields", func(t *testing.T) {
		assert.Equal(t, "body", Stringify(map[string]interface{}{"content": "body", "name": "n"}))
		assert.Equal(t, "T", Stringify(map[string]interface{}{"text": "T", "content": "C"}))
	})

	t.Run("mapping falls back to joined values", func(t *testing.T) {
		assert.Equal(t, "1 2", Stringify(map[string]interface{}{"b": "2", "a": "1"}))
	})
}
