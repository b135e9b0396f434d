// Package runstore persists run history to SQLite.
//
// Each reconciliation pass is one row in runs carrying its summary counters,
// with one game_outcomes row per game recording the folder it ended up with
// and whether it was absorbed. The database lives in the configured state
// directory and is versioned by a schema_version table.
package runstore
