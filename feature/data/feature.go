package data

import (
	"data-loader/core/metadata"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface for the metadata inspector.
type Feature struct {
	handler *Handler
}

// NewFeature creates the metadata inspector over meta.
func NewFeature(meta metadata.Map, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(meta, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "metadata"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
