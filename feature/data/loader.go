package data

import (
	"path"
	"strings"
	"time"

	"data-loader/core/fileset"
	"data-loader/core/metadata"
	"data-loader/feature/data/parsers"

	"go.uber.org/zap"
)

// Loader grafts data files into the metadata tree.
type Loader struct {
	cfg     Config
	parsers *parsers.Registry
	logger  *zap.Logger
	metrics *Metrics
}

// Option customises a Loader.
type Option func(*Loader)

// WithRegistry replaces the default parser registry. When script
// evaluation is enabled the script parser is added to r.
func WithRegistry(r *parsers.Registry) Option {
	return func(l *Loader) {
		l.parsers = r
	}
}

// WithMetrics records per-file outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader creates a loader. The configuration is fixed for its lifetime.
func NewLoader(cfg Config, logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		cfg:     cfg,
		parsers: parsers.Default(),
		logger:  logger.With(zap.String("plugin", "data")),
	}
	for _, opt := range opts {
		opt(l)
	}
	if cfg.AllowScript {
		l.parsers.Register(parsers.ScriptExt, parsers.Script)
	}
	return l
}

// Root returns the normalised data directory.
func (l *Loader) Root() string {
	if root := fileset.Normalize(l.cfg.Path); root != "" {
		return root
	}
	return DefaultPath
}

// Extensions lists the extensions this loader can parse.
func (l *Loader) Extensions() []string {
	return l.parsers.Extensions()
}

// Load parses every data file of files and grafts the result into meta.
//
// Data files are visited in File Set order. The first failure aborts the
// run; values grafted before it stay in meta. With Exclude set, a data file
// is removed from files before it is parsed, so a file that fails to parse
// is still gone. Load mutates both arguments and must not run concurrently
// against the same tree. A nil files or meta fails with ErrNilTarget.
func (l *Loader) Load(files *fileset.FileSet, meta metadata.Map) error {
	if files == nil || meta == nil {
		return ErrNilTarget
	}

	start := time.Now()
	defer l.metrics.since(start)

	root := l.Root()
	var datafiles []string
	for _, p := range files.Paths() {
		if inDir(path.Dir(p), root) {
			datafiles = append(datafiles, p)
		}
	}

	for _, p := range datafiles {
		dir, name := path.Split(p)
		key, ext := splitName(name)
		segments := nestedSegments(path.Clean(dir), root)

		parse, ok := l.parsers.Lookup(ext)
		if !ok {
			l.metrics.file(ext, outcomeUnsupported)
			return &LoadError{Kind: ErrUnsupportedFormat, File: p, Ext: ext, Segments: segments, Key: key}
		}

		if err := meta.Probe(segments, key); err != nil {
			l.metrics.file(ext, outcomeDuplicate)
			return &LoadError{Kind: ErrDuplicateKey, File: p, Ext: ext, Segments: segments, Key: key, Err: err}
		}

		f, _ := files.Get(p)
		raw := f.Contents
		if l.cfg.Exclude {
			files.Delete(p)
		}

		value, err := parse(raw)
		if err != nil {
			l.metrics.file(ext, outcomeMalformed)
			return &LoadError{Kind: ErrMalformedData, File: p, Ext: ext, Segments: segments, Key: key, Err: err}
		}

		target, err := meta.Nested(segments)
		if err != nil {
			l.metrics.file(ext, outcomeDuplicate)
			return &LoadError{Kind: ErrDuplicateKey, File: p, Ext: ext, Segments: segments, Key: key, Err: err}
		}
		target[key] = value

		l.metrics.file(ext, outcomeLoaded)
		l.logger.Debug("Loaded data file",
			zap.String("file", p),
			zap.Strings("segments", segments),
			zap.String("key", key),
		)
	}

	l.logger.Info("Data files loaded",
		zap.String("path", root),
		zap.Int("count", len(datafiles)),
		zap.Bool("exclude", l.cfg.Exclude),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// inDir reports whether dir is root or nested below it.
func inDir(dir, root string) bool {
	return dir == root || strings.HasPrefix(dir, root+"/")
}

// nestedSegments returns the directories between root and dir.
func nestedSegments(dir, root string) []string {
	rel := strings.TrimPrefix(strings.TrimPrefix(dir, root), "/")
	if rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

// splitName separates a file name into base key and extension. A leading
// dot does not start an extension: ".env" has no extension.
func splitName(name string) (key, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
