// Package runner orchestrates one reconciliation run end to end.
//
// A run loads the game session snapshot, scans the unprocessed media folder,
// matches files to games, merges duplicate games, persists the outcome, and
// publishes notifications. A file lock in the state dir keeps concurrent
// runs from racing on lazy folder creation.
package runner
