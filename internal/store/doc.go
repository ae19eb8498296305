// Package store provides SQLite-backed run history for imex merges.
//
// Every merge executed with a database attached records:
//   - Runs: pattern, split mode, outcome and number of merged items
//   - Run Streams: per-input path and how many items were pulled from it
//
// Run IDs are UUIDv7 (time-sortable). Listing order uses the seq column,
// a per-database counter assigned at insert time, never wall-clock time.
//
// # Connections
//
// Pragmas are passed as go-sqlite3 DSN parameters so each pooled connection
// gets them: WAL journal, synchronous=NORMAL, a 5 second busy timeout and
// foreign key enforcement (run_streams rows are deleted with their run).
//
// Schema changes are numbered migrations tracked in PRAGMA user_version.
package store
