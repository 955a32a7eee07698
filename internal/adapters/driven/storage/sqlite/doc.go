// Package sqlite provides the SQLite-backed processed-file store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database file holds the processed_files table,
// keyed by absolute source path.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <db_dir>/processed.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use by batch workers. The store
// relies on database/sql pooling and SQLite's WAL mode with a busy timeout.
package sqlite
