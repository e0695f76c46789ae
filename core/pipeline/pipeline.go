package pipeline

import (
	"context"
	"fmt"
	"time"

	"data-loader/core/fileset"
	"data-loader/core/metadata"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Plugin is a single build step. It may read and delete files and graft
// values into the metadata tree.
type Plugin interface {
	Name() string
	Run(ctx context.Context, files *fileset.FileSet, meta metadata.Map) error
}

// Result describes a finished build.
type Result struct {
	BuildID  string
	Files    *fileset.FileSet
	Metadata metadata.Map
	Took     time.Duration
}

// Manager runs registered plugins in registration order.
type Manager struct {
	plugins []Plugin
	logger  *zap.Logger
}

// NewManager creates a manager with no plugins.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Register appends p to the plugin chain.
func (m *Manager) Register(p Plugin) {
	m.plugins = append(m.plugins, p)
}

// Plugins returns the registered plugin names.
func (m *Manager) Plugins() []string {
	names := make([]string, len(m.plugins))
	for i, p := range m.plugins {
		names[i] = p.Name()
	}
	return names
}

// Run passes files and meta through every plugin. The first failing plugin
// stops the chain.
func (m *Manager) Run(ctx context.Context, files *fileset.FileSet, meta metadata.Map) error {
	for _, p := range m.plugins {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.logger.Debug("Running plugin", zap.String("plugin", p.Name()), zap.Int("files", files.Len()))
		if err := p.Run(ctx, files, meta); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

// Build reads src, runs the plugin chain over a fresh metadata tree, and
// writes the surviving files to sink. A nil sink skips the write.
func (m *Manager) Build(ctx context.Context, src Source, sink Sink) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := m.logger.With(zap.String("build_id", id))

	files, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}
	log.Info("Sources read", zap.String("source", src.String()), zap.Int("files", files.Len()))

	meta := metadata.New()
	if err := m.Run(ctx, files, meta); err != nil {
		return nil, err
	}

	if sink != nil {
		if err := sink.Write(ctx, files); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		log.Info("Output written", zap.String("destination", sink.String()), zap.Int("files", files.Len()))
	}

	return &Result{
		BuildID:  id,
		Files:    files,
		Metadata: meta,
		Took:     time.Since(start),
	}, nil
}
