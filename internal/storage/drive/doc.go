// Package drive implements the storage backend against a Drive-style REST
// API: paginated child listing, folder creation, anyone-with-link read
// permissions, parent-swapping moves, and renames. The HTTP client is an
// interface so tests can stub transport behavior.
package drive
