// Package parsers holds the parser registry used by the data loader.
//
// A parser turns the raw bytes of a data file into a plain Go value
// (map[string]any, []any, string, bool, numbers or nil). The registry maps
// file extensions to parsers:
//
//	.json         encoding/json
//	.yaml, .yml   gopkg.in/yaml.v3
//	.toml         github.com/pelletier/go-toml/v2
//	.cson         built-in CSON reader
//	.cue          cuelang.org/go (concrete values only)
//	.env          github.com/joho/godotenv
//
// Script evaluates HCL attribute files with a fixed table of pure functions
// (hashicorp/hcl + go-cty). It runs user-supplied expressions, so it is
// never part of Default; callers register it under ScriptExt explicitly.
package parsers
