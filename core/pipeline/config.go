package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"data-loader/core/fileset"
	"data-loader/core/storage"

	"github.com/spf13/afero"
)

const (
	BackendDisk   = "disk"
	BackendBucket = "bucket"
)

// Config holds the build input/output settings.
type Config struct {
	// Source is the source directory, or the object prefix for the bucket backend.
	Source string `mapstructure:"source" default:"src"`
	// Destination is the output directory, or the object prefix for the bucket backend.
	Destination string `mapstructure:"destination" default:"build"`
	// Backend selects where sources and output live (disk, bucket).
	Backend string `mapstructure:"backend" default:"disk"`
	// Clean removes stale output before writing.
	Clean bool `mapstructure:"clean" default:"true"`
	// MetadataFile, when set, receives the metadata tree as JSON after a build.
	MetadataFile string `mapstructure:"metadata_file" default:""`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendDisk, BackendBucket:
		return true
	default:
		return false
	}
}

// Endpoints returns the source and sink described by c. client is only used
// by the bucket backend and may be nil otherwise.
func (c Config) Endpoints(fs afero.Fs, client storage.Client, store storage.Config) (Source, Sink, error) {
	switch c.Backend {
	case BackendDisk:
		if err := c.checkClean(diskPath); err != nil {
			return nil, nil, err
		}
		return &FsSource{Fs: fs, Root: c.Source},
			&FsSink{Fs: fs, Root: c.Destination, Clean: c.Clean}, nil
	case BackendBucket:
		if client == nil {
			return nil, nil, fmt.Errorf("backend %s requires a storage client", c.Backend)
		}
		if err := c.checkClean(fileset.Normalize); err != nil {
			return nil, nil, err
		}
		return &BucketSource{Client: client, Bucket: store.Bucket, Prefix: c.Source},
			&BucketSink{Client: client, Bucket: store.Bucket, Region: store.Region, Prefix: c.Destination, Clean: c.Clean}, nil
	default:
		return nil, nil, fmt.Errorf("unknown build backend: %s", c.Backend)
	}
}

// checkClean rejects a cleaning destination that overlaps the source: empty,
// equal, or one nested in the other. normalize maps both to slash paths.
func (c Config) checkClean(normalize func(string) string) error {
	if !c.Clean {
		return nil
	}
	src, dst := normalize(c.Source), normalize(c.Destination)
	if overlaps(src, dst) {
		return fmt.Errorf("%w %q: it overlaps the source %q", fileset.ErrUnsafeClean, c.Destination, c.Source)
	}
	return nil
}

func overlaps(a, b string) bool {
	if a == "" || b == "" || a == "/" || b == "/" || a == b {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// diskPath returns the absolute slash form of p.
func diskPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	return filepath.ToSlash(abs)
}
