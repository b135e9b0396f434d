// Package session holds the game session records a reconciliation run
// operates on and the sources that produce them.
//
// Games arrive from the portal scraper as an already-canonical export; the
// core never re-derives them from raw web content. Roster comparison is a
// case-folded email set equality so ordering and duplicate entries never
// influence duplicate detection.
package session
