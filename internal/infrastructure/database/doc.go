// Package database provides SQLite storage for the sygnal gateway.
//
// This package manages:
//   - Database connection lifecycle (open, health check, close)
//   - Schema migrations via embedded SQL files
//   - Connection configuration (WAL mode, busy timeout, foreign keys)
//
// The gateway uses a single shared database handle, opened at startup and
// passed to delivery backends that need durable state (for example the
// rejected pushkey log).
//
// # Migrations
//
// Migration files live in the top-level migrations/ directory and are
// embedded into the binary. Filenames encode the version and description:
//
//	20260301_000000_create_rejected_pushkeys.up.sql
//	20260301_000000_create_rejected_pushkeys.down.sql
//
// Migrations are applied in version order inside individual transactions,
// tracked in the schema_migrations table.
//
// # Concurrency
//
// SQLite allows a single writer. The connection pool is capped at one
// connection and WAL mode keeps readers unblocked during writes.
package database
