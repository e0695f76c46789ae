package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes", "on").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case string:
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		}
		b, _ := strconv.ParseBool(v)
		return b
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// Normalize rewrites decoder output into the shapes the metadata tree
// expects: mappings with non-string keys (map[any]any, as produced by some
// YAML documents) become map[string]any, and typed string maps are widened.
// Slices and nested mappings are walked recursively.
func Normalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = Normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[ToString(k)] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = item
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = Normalize(item)
		}
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}
