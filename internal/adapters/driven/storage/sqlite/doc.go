// Package sqlite provides an SQLite-based implementation of
// driven.IndexStateStore, the local ledger of synced paths.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each applied version is recorded in
// schema_migrations, so reopening a database only runs newer files.
//
// # Data Location
//
// By default, the database is stored at ~/.vecsync/data/ledger.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
