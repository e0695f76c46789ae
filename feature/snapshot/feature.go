package snapshot

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface for build snapshots.
type Feature struct {
	handler *Handler
}

// NewFeature creates the snapshot feature. A nil store disables it.
func NewFeature(store *Store, logger *zap.Logger) *Feature {
	if store == nil {
		return &Feature{}
	}
	return &Feature{handler: NewHandler(store, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "snapshot"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.handler != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
