package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"Bool", true, true},
		{"One", 1, true},
		{"Zero", 0, false},
		{"Int64", int64(1), true},
		{"StringTrue", "true", true},
		{"StringYes", "Yes", true},
		{"StringOn", "on", true},
		{"StringT", "T", true},
		{"StringFalse", "false", false},
		{"Garbage", "maybe", false},
		{"Bytes", []byte("1"), true},
		{"Nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"ports": map[any]any{80: "http", "tls": map[any]any{443: "https"}},
		"list":  []any{map[any]any{true: "yes"}},
		"env":   map[string]string{"A": "1"},
		"rows":  []map[string]any{{"id": 1}},
	}

	out := Normalize(in)

	want := map[string]any{
		"ports": map[string]any{"80": "http", "tls": map[string]any{"443": "https"}},
		"list":  []any{map[string]any{"true": "yes"}},
		"env":   map[string]any{"A": "1"},
		"rows":  []any{map[string]any{"id": 1}},
	}
	assert.Equal(t, want, out)
	assert.Equal(t, 3, Normalize(3))
}
