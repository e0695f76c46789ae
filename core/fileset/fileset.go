package fileset

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrUnsafeClean is returned when cleaning a destination would remove more
// than the previous build output.
var ErrUnsafeClean = errors.New("refusing to clean destination")

// File is a single materialised build input.
type File struct {
	// Path is the slash-separated path relative to the source root.
	Path     string
	Contents []byte
	ModTime  time.Time
	Mode     os.FileMode
}

// FileSet holds the files of one build, keyed by normalised path.
// It is not safe for concurrent mutation.
type FileSet struct {
	files map[string]*File
}

// New returns an empty file set.
func New() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

// Normalize converts p to the canonical key form: forward slashes, cleaned,
// no leading "./" or "/".
func Normalize(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Add stores f under its normalised path, replacing any previous entry.
func (s *FileSet) Add(f *File) {
	f.Path = Normalize(f.Path)
	if f.Mode == 0 {
		f.Mode = 0o644
	}
	s.files[f.Path] = f
}

// AddBytes is shorthand for Add with only a path and contents.
func (s *FileSet) AddBytes(p string, contents []byte) {
	s.Add(&File{Path: p, Contents: contents})
}

// Get returns the file stored at p.
func (s *FileSet) Get(p string) (*File, bool) {
	f, ok := s.files[Normalize(p)]
	return f, ok
}

// Has reports whether p is present.
func (s *FileSet) Has(p string) bool {
	_, ok := s.files[Normalize(p)]
	return ok
}

// Delete removes p. Deleting a missing path is a no-op.
func (s *FileSet) Delete(p string) {
	delete(s.files, Normalize(p))
}

// Paths returns every path in lexical order. This order is the iteration
// order used by plugins.
func (s *FileSet) Paths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	return len(s.files)
}
