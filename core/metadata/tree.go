package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAMap is returned when a path segment holds a non-mapping value.
	ErrNotAMap = errors.New("value is not a mapping")
	// ErrKeyExists is returned by Probe when the target key is already populated.
	ErrKeyExists = errors.New("key already exists")
)

// PathError reports which segment of a walk failed.
type PathError struct {
	Path []string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("metadata %q: %v", strings.Join(e.Path, "/"), e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Map is a node of the metadata tree.
type Map map[string]any

// New returns an empty tree.
func New() Map {
	return make(Map)
}

// asMap accepts both Map and the map[string]any produced by decoders.
func asMap(v any) (Map, bool) {
	switch m := v.(type) {
	case Map:
		return m, true
	case map[string]any:
		return Map(m), true
	default:
		return nil, false
	}
}

// Nested walks segments from m, creating an empty mapping for every missing
// segment, and returns the innermost mapping. An existing non-mapping value
// is never overwritten.
func (m Map) Nested(segments []string) (Map, error) {
	cur := m
	for i, seg := range segments {
		v, ok := cur[seg]
		if !ok {
			next := make(Map)
			cur[seg] = next
			cur = next
			continue
		}
		next, ok := asMap(v)
		if !ok {
			return nil, &PathError{Path: copyPath(segments[:i+1]), Err: ErrNotAMap}
		}
		cur = next
	}
	return cur, nil
}

// Lookup returns the value stored at path without modifying the tree.
// An empty path returns m itself.
func (m Map) Lookup(path []string) (any, bool) {
	var cur any = m
	for _, seg := range path {
		node, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Probe checks that key can be grafted under segments: every existing
// segment must be a mapping and key must be absent from the target.
// Missing segments are fine, Nested creates them.
func (m Map) Probe(segments []string, key string) error {
	cur := m
	for i, seg := range segments {
		v, ok := cur[seg]
		if !ok {
			return nil
		}
		next, ok := asMap(v)
		if !ok {
			return &PathError{Path: copyPath(segments[:i+1]), Err: ErrNotAMap}
		}
		cur = next
	}
	if _, ok := cur[key]; ok {
		return &PathError{Path: append(copyPath(segments), key), Err: ErrKeyExists}
	}
	return nil
}

// Clone returns a deep copy of m. Nested mappings and sequences are copied,
// scalars are shared.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if node, ok := asMap(v); ok {
		return node.Clone()
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

func copyPath(p []string) []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}
