package timestamp_test

import (
	"errors"
	"testing"
	"time"

	"crosscheck/internal/timestamp"
)

var layouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006:01:02 15:04:05",
}

func TestParseAcceptsEachLayout(t *testing.T) {
	want := time.Date(2024, 8, 11, 19, 53, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-08-11 19:53:00",
		"2024/08/11 19:53:00",
		"2024:08:11 19:53:00",
	} {
		got, err := timestamp.Parse(raw, layouts)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := timestamp.Parse("not-a-date", layouts)
	var parseErr *timestamp.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Raw != "not-a-date" {
		t.Fatalf("unexpected raw value: %q", parseErr.Raw)
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := timestamp.Parse("   ", layouts); err == nil {
		t.Fatal("expected error for blank input")
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	want := "2024-08-11 19:53:00"
	ts, err := timestamp.ParseCanonical(want)
	if err != nil {
		t.Fatalf("ParseCanonical returned error: %v", err)
	}
	if got := timestamp.Canonical(ts); got != want {
		t.Fatalf("Canonical = %q, want %q", got, want)
	}
}

func TestFromFilename(t *testing.T) {
	got, err := timestamp.FromFilename("20240811_195300.mp4")
	if err != nil {
		t.Fatalf("FromFilename returned error: %v", err)
	}
	want := time.Date(2024, 8, 11, 19, 53, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("FromFilename = %v, want %v", got, want)
	}
}

func TestFromFilenameRejectsBadStems(t *testing.T) {
	for _, name := range []string{
		"IMG_1234.heic",        // wrong shape
		"2024811_195300.mp4",   // stem too short
		"202408111_195300.mov", // stem too long
		"20241350_995900.mp4",  // impossible date
		"",
	} {
		if _, err := timestamp.FromFilename(name); err == nil {
			t.Fatalf("FromFilename(%q) should have failed", name)
		}
	}
}
