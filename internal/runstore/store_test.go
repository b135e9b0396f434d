package runstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"crosscheck/internal/runstore"
	"crosscheck/internal/testsupport"
)

func openStore(t *testing.T) *runstore.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, startedAt time.Time) runstore.Run {
	return runstore.Run{
		ID:               id,
		StartedAt:        startedAt,
		FinishedAt:       startedAt.Add(90 * time.Second),
		FilesConsidered:  10,
		FilesMatched:     7,
		FilesSkipped:     1,
		Associations:     8,
		FoldersCreated:   3,
		FoldersFailed:    1,
		MovesFailed:      1,
		MergesCompleted:  2,
		MergesRolledBack: 1,
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	store := openStore(t)
	startedAt := time.Date(2024, 8, 11, 19, 50, 0, 0, time.UTC)
	run := sampleRun("run-1", startedAt)
	outcomes := []runstore.GameOutcome{
		{GameID: "g1", FolderID: "folder-1", FolderLink: "https://links.test/folder-1", MediaCount: 3},
		{GameID: "g2", Absorbed: true, MediaCount: 2, FolderID: "folder-2"},
	}

	if err := store.SaveRun(context.Background(), run, outcomes); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := store.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded != run {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, run)
	}

	got, err := store.GameOutcomes(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GameOutcomes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(got))
	}
	if got[0].GameID != "g1" || got[0].FolderLink != "https://links.test/folder-1" {
		t.Fatalf("unexpected first outcome: %+v", got[0])
	}
	if !got[1].Absorbed || got[1].RunID != "run-1" {
		t.Fatalf("unexpected second outcome: %+v", got[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	base := time.Date(2024, 8, 11, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		run := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveRun(context.Background(), run, nil); err != nil {
			t.Fatalf("SaveRun(%s): %v", id, err)
		}
	}

	runs, err := store.ListRuns(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-new" || runs[1].ID != "run-mid" {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}

	all, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns(0): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 runs, got %d", len(all))
	}
}

func TestGetRunUnknownID(t *testing.T) {
	store := openStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, runstore.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	run := sampleRun("run-1", time.Date(2024, 8, 11, 19, 0, 0, 0, time.UTC))
	if err := first.SaveRun(context.Background(), run, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer func() { _ = second.Close() }()
	if _, err := second.GetRun(context.Background(), "run-1"); err != nil {
		t.Fatalf("run should survive reopen: %v", err)
	}
}
