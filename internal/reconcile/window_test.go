package reconcile_test

import (
	"testing"
	"time"

	"crosscheck/internal/reconcile"
	"crosscheck/internal/timestamp"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := timestamp.ParseCanonical(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestWindowContainsSpecExample(t *testing.T) {
	start := mustTime(t, "2024-08-11 19:50:00")
	end := mustTime(t, "2024-08-11 22:00:00")
	window := reconcile.NewWindow(start, end, 2*time.Minute)

	if !window.Contains(mustTime(t, "2024-08-11 19:53:00")) {
		t.Fatal("timestamp inside the game interval should match")
	}
}

func TestWindowBoundsAreInclusive(t *testing.T) {
	start := mustTime(t, "2024-08-11 19:50:00")
	end := mustTime(t, "2024-08-11 22:00:00")
	window := reconcile.NewWindow(start, end, 2*time.Minute)

	if !window.Contains(mustTime(t, "2024-08-11 19:48:00")) {
		t.Fatal("lower bound should be inclusive")
	}
	if !window.Contains(mustTime(t, "2024-08-11 22:02:00")) {
		t.Fatal("upper bound should be inclusive")
	}
	if window.Contains(mustTime(t, "2024-08-11 19:47:59")) {
		t.Fatal("one second before the widened start should not match")
	}
	if window.Contains(mustTime(t, "2024-08-11 22:02:01")) {
		t.Fatal("one second after the widened end should not match")
	}
}
