// Package repositories implements SQLite persistence for run history.
//
// A run is one mutating invocation (search, create, sync): which document it
// targeted, what it did to the remote playlist, and how much quota it spent.
// The `ytlist history` command reads this table back, newest first.
//
// Key Implementations:
//   - [RunRepository] : Run history with operation, status and document filters
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Schema lives in internal/shared/sql and is applied by [shared.RunMigrations]
// when the database is opened; history writes are best-effort and never fail a
// run on their own.
package repositories
