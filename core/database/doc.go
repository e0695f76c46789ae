// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to open either a MySQL server or a
// SQLite file based on the application's configuration. Build snapshots are
// persisted through it.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings
// and pings the database before returning.
//
// # Schema Inspection
//
// TableColumns and MissingColumns read the live column list of a table, so
// stores can verify a migrated schema before serving from it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "snapshots", []string{"id", "metadata"})
package database
