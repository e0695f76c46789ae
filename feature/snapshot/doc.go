// Package snapshot persists the metadata tree of each build.
//
// A Snapshot row is keyed by the build ID and stores the tree as JSON text,
// so any gorm dialect (sqlite, MySQL) can hold it. The Store migrates and
// verifies its table, saves pipeline results and reads them back.
//
// # Endpoints
//
//   - GET /snapshots: newest snapshots first, without metadata
//   - GET /snapshots/latest: the newest snapshot with its metadata
//   - GET /snapshots/:id: one snapshot with its metadata
package snapshot
