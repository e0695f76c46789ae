package data

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by Load. Match them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported metadata type")
	ErrDuplicateKey      = errors.New("metadata already contains key")
	ErrMalformedData     = errors.New("malformed data")
)

// ErrNilTarget is returned when Load is given a nil file set or tree.
var ErrNilTarget = errors.New("data loader needs a file set and a metadata tree")

// LoadError is the single failure type of Load. Kind is one of the
// sentinel errors above; Err carries the parser or tree error, if any.
type LoadError struct {
	Kind error
	// File is the File Set path of the offending data file.
	File string
	// Ext is the file extension, set for unsupported formats.
	Ext string
	// Segments and Key locate the graft target in the metadata tree.
	Segments []string
	Key      string
	Err      error
}

// KeyPath joins Segments and Key with slashes.
func (e *LoadError) KeyPath() string {
	return strings.Join(append(append([]string{}, e.Segments...), e.Key), "/")
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case ErrUnsupportedFormat:
		return fmt.Sprintf("%v %q in %q", e.Kind, e.Ext, e.File)
	case ErrDuplicateKey:
		return fmt.Sprintf("%v %q (from %q)", e.Kind, e.KeyPath(), e.File)
	case ErrMalformedData:
		return fmt.Sprintf("%v in %q: %v", e.Kind, e.File, e.Err)
	}
	return fmt.Sprintf("data %q: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
