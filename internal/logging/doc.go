// Package logging builds the slog loggers used across crosscheck.
//
// It provides a console handler that renders one line per event with a leading
// component label, a JSON handler for machine consumption, attribute helper
// constructors, and a no-op logger so collaborators can always log without
// nil checks. Every component takes a logger; absence of one never changes
// control flow.
package logging
