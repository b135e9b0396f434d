// Package absorb detects duplicate game sessions and merges them.
//
// Two games are duplicates when their canonicalized player-email sets are
// equal, regardless of order or repetition. The scan is greedy in input
// order: the earliest game survives and absorbs each later duplicate. Merges
// move media one item at a time and keep a rollback ledger so a failure
// partway restores both the target's media list and the source folder's
// contents. A rollback failure is terminal for that merge and leaves items
// for manual fix-up; it never aborts the run.
package absorb
