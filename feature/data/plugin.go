package data

import (
	"context"

	"data-loader/core/fileset"
	"data-loader/core/metadata"
	"data-loader/core/pipeline"
)

var _ pipeline.Plugin = (*Loader)(nil)

// Name returns the plugin name.
func (l *Loader) Name() string {
	return "data"
}

// Run implements pipeline.Plugin. Loading is synchronous and does no I/O,
// so ctx is only checked before starting.
func (l *Loader) Run(ctx context.Context, files *fileset.FileSet, meta metadata.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.Load(files, meta)
}
