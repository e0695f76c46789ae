// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package defines
// the configuration structure and its validation.
//
// # Configuration
//
// The Config struct defines the bind host and port, the API key, and whether
// Prometheus metrics are exposed.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to build the listen address.
package server
