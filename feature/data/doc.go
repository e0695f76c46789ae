// Package data implements the data loader build plugin.
//
// The loader scans a configured directory of the build's file set (default
// "data"), parses every file in it according to its extension, and grafts
// the result into the shared metadata tree. The graft location comes from
// the file's position below the data directory:
//
//	data/site.json      -> meta["site"]
//	data/en/nav.yaml    -> meta["en"]["nav"]
//
// # Failure Modes
//
// Every failure aborts the run and is reported as a *LoadError:
//   - ErrUnsupportedFormat: no parser is registered for the extension.
//   - ErrDuplicateKey: the graft target is already populated, or a path
//     segment already holds a non-mapping value.
//   - ErrMalformedData: the parser rejected the file contents.
//
// Values grafted before the failing file stay in the tree.
//
// # Options
//
//   - path: data directory, relative to the source root.
//   - exclude: drop data files from the build output.
//   - allowjs: enable the script parser (.hcl expressions, see package parsers).
//
// # HTTP Endpoints
//
//   - GET /metadata : the whole tree.
//   - GET /metadata/{path} : the value under a slash-separated key path (supports ?pretty=true).
package data
