package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalLayout is the single normalized form all timestamps are converted
// to before comparison.
const CanonicalLayout = "2006-01-02 15:04:05"

// filenameLayout matches upload names of the form 20240811_195300.
const filenameLayout = "20060102_150405"

// filenameStemLength is the exact length of a timestamp-bearing file stem.
const filenameStemLength = 15

// ParseError reports a timestamp that matched none of the accepted layouts.
// Records carrying such timestamps are excluded from matching, never defaulted.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timestamp %q matches no accepted layout", e.Raw)
}

// Parse converts a free-form timestamp string into its canonical time using
// the provided layouts in priority order. It returns a *ParseError when no
// layout matches.
func Parse(raw string, layouts []string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &ParseError{Raw: raw}
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &ParseError{Raw: raw}
}

// ParseCanonical parses a timestamp already in canonical form.
func ParseCanonical(value string) (time.Time, error) {
	ts, err := time.Parse(CanonicalLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &ParseError{Raw: value}
	}
	return ts, nil
}

// Canonical renders a time in the canonical layout.
func Canonical(ts time.Time) string {
	return ts.Format(CanonicalLayout)
}

// FromFilename derives a creation timestamp from an upload name whose stem is
// YYYYMMDD_HHMMSS (for example 20240811_195300.mp4). The stem must be exactly
// 15 characters; anything else is a *ParseError.
func FromFilename(name string) (time.Time, error) {
	stem := strings.TrimSpace(name)
	if idx := strings.IndexByte(stem, '.'); idx >= 0 {
		stem = stem[:idx]
	}
	if len(stem) != filenameStemLength {
		return time.Time{}, &ParseError{Raw: name}
	}
	ts, err := time.Parse(filenameLayout, stem)
	if err != nil {
		return time.Time{}, &ParseError{Raw: name}
	}
	return ts, nil
}
