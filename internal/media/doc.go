// Package media builds the per-run media snapshot: file records from the
// unprocessed storage folder and the write-once index of creation timestamps
// the interval matcher queries. The index is owned by the run, never shared
// across runs.
package media
