// Package timestamp normalizes heterogeneous timestamp strings into the one
// canonical YYYY-MM-DD HH:MM:SS representation used everywhere in crosscheck.
//
// Producers hand it free-form strings (portal exports, upload filenames);
// unparseable input yields a typed ParseError so callers can skip the owning
// record instead of guessing a time.
package timestamp
