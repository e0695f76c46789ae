// Package utils provides small conversion helpers shared by the parsers, the
// CLI and the HTTP handlers: loose string/bool coercion and normalisation of
// decoder output into plain map[string]any / []any trees.
package utils
