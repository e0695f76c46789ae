// Package loader provides the plugin-like feature loading system.
//
// It allows the application to register and initialize HTTP features (modules).
// Each feature implements the Feature interface, which defines whether it is
// enabled and how it mounts its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll()
//
// Build plugins are a separate concept, see core/pipeline. Features like
// 'metadata' and 'snapshot' expose the results of a build over HTTP.
package loader
