// Package metadata implements the shared metadata tree that build plugins
// populate and downstream consumers (templates, the HTTP inspector, snapshots)
// read after a build.
//
// # Shape
//
// A Map is a plain map[string]any. Values are scalars, []any sequences, or
// nested mappings (either Map or map[string]any, as produced by decoders).
// There is no schema: the shape is driven entirely by the data files that
// were grafted into it.
//
// # Grafting
//
// Callers never rely on implicit key creation. Nested walks go through
// Nested, which creates intermediate mappings, and Probe, which checks a
// target slot without mutating anything:
//
//	if err := meta.Probe([]string{"en"}, "nav"); err != nil {
//	    return err
//	}
//	target, _ := meta.Nested([]string{"en"})
//	target["nav"] = value
//
// The tree carries no locking; a Map must not be mutated from several
// goroutines at once.
package metadata
