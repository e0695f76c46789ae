package parsers

import (
	"sort"

	"data-loader/core/utils"
)

// Func parses the raw contents of a data file into a value. It fails on
// malformed input.
type Func func(raw []byte) (any, error)

// Registry maps a file extension, including the leading dot, to a parser.
// Lookups are case-sensitive: ".JSON" is not ".json".
type Registry struct {
	parsers map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Func)}
}

// Default returns a registry with every built-in data format. The script
// parser is not included; see Script.
func Default() *Registry {
	r := NewRegistry()
	r.Register(".json", JSON)
	r.Register(".yaml", YAML)
	r.Register(".yml", YAML)
	r.Register(".cson", CSON)
	r.Register(".toml", TOML)
	r.Register(".cue", CUE)
	r.Register(".env", Env)
	return r
}

// Register adds or replaces the parser for ext. Results are normalised so
// every mapping in the output is a map[string]any.
func (r *Registry) Register(ext string, fn Func) {
	r.parsers[ext] = func(raw []byte) (any, error) {
		v, err := fn(raw)
		if err != nil {
			return nil, err
		}
		return utils.Normalize(v), nil
	}
}

// Lookup returns the parser registered for ext.
func (r *Registry) Lookup(ext string) (Func, bool) {
	fn, ok := r.parsers[ext]
	return fn, ok
}

// Extensions lists the registered extensions in lexical order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
