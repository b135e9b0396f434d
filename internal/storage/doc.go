// Package storage defines the backend surface the reconciler drives: listing
// folder children, creating folders, granting public read access, moving
// items, and renaming folders.
//
// Implementations live in subpackages (drive for the HTTP client); tests use
// the in-memory backend from testsupport. Failures are tagged with sentinel
// errors so callers can tell transport faults from missing items.
package storage
