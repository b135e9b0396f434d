// Package testsupport provides shared test fixtures: a per-test config
// builder, an in-memory storage backend with failure injection hooks, and a
// run-store opener with registered cleanup.
package testsupport
