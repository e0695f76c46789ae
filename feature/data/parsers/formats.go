package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// JSON parses a single JSON document.
func JSON(raw []byte) (any, error) {
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// YAML parses the first document of a YAML stream. An empty document
// yields nil.
func YAML(raw []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TOML parses a TOML document into a table.
func TOML(raw []byte) (any, error) {
	out := make(map[string]any)
	if err := toml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CUE evaluates a CUE file. Every field must be concrete; constraints
// without a value are rejected.
func CUE(raw []byte) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(raw, cue.Filename("data.cue"))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	var out any
	if err := v.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

// Env parses dotenv-style KEY=value lines into a string table.
func Env(raw []byte) (any, error) {
	vars, err := godotenv.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return vars, nil
}
