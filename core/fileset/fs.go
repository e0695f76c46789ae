package fileset

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// ReadFs loads every regular file under root into a new FileSet. Paths are
// stored relative to root.
func ReadFs(fsys afero.Fs, root string) (*FileSet, error) {
	set := New()
	err := afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to relativise %s: %w", p, err)
		}

		contents, err := afero.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		set.Add(&File{
			Path:     rel,
			Contents: contents,
			ModTime:  info.ModTime(),
			Mode:     info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return set, nil
}

// WriteFs writes every file of set below root, creating directories as
// needed. When clean is set, root is removed first; cleaning the working
// directory or the filesystem root fails with ErrUnsafeClean.
func WriteFs(fsys afero.Fs, root string, set *FileSet, clean bool) error {
	if clean {
		if Normalize(root) == "" {
			return fmt.Errorf("%w: %q", ErrUnsafeClean, root)
		}
		if err := fsys.RemoveAll(root); err != nil {
			return fmt.Errorf("failed to clean %s: %w", root, err)
		}
	}

	for _, p := range set.Paths() {
		f, _ := set.Get(p)
		dst := filepath.Join(root, filepath.FromSlash(p))
		if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := afero.WriteFile(fsys, dst, f.Contents, f.Mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", p, err)
		}
		if !f.ModTime.IsZero() {
			_ = fsys.Chtimes(dst, f.ModTime, f.ModTime)
		}
	}
	return nil
}
