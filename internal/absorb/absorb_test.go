package absorb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"crosscheck/internal/absorb"
	"crosscheck/internal/logging"
	"crosscheck/internal/session"
	"crosscheck/internal/testsupport"
	"crosscheck/internal/timestamp"
)

type ensurerFunc func(ctx context.Context, game *session.Game) error

func (f ensurerFunc) EnsureFolder(ctx context.Context, game *session.Game) error {
	return f(ctx, game)
}

var noEnsure = ensurerFunc(func(ctx context.Context, game *session.Game) error {
	return errors.New("unexpected EnsureFolder call")
})

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := timestamp.ParseCanonical(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func newGame(t *testing.T, id string, emails ...string) *session.Game {
	t.Helper()
	game := &session.Game{
		ID:        id,
		StartTime: mustTime(t, "2024-08-11 19:00:00"),
		EndTime:   mustTime(t, "2024-08-11 21:00:00"),
	}
	for _, email := range emails {
		game.Players = append(game.Players, session.Player{Name: email, Email: email})
	}
	return game
}

// seedFolder registers a folder on both the backend and the game and seeds
// the named media files under it.
func seedFolder(backend *testsupport.MemoryBackend, game *session.Game, folderID string, fileIDs ...string) {
	backend.AddFolder(folderID, "game_"+game.ID+"_media", "parent-8")
	game.FolderID = folderID
	game.FolderLink = "https://links.test/" + folderID
	for _, fileID := range fileIDs {
		backend.AddFile(fileID, fileID+".mp4", "video/mp4", folderID)
		game.AddMedia(fileID)
	}
}

func TestRunMergesDuplicateRostersAndUnionsMedia(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com", "two@example.com")
	gameB := newGame(t, "b", "TWO@Example.com", "one@example.com", "one@example.com")
	seedFolder(backend, gameA, "folder-a", "f1")
	seedFolder(backend, gameB, "folder-b", "f2", "f3")

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesCompleted != 1 || stats.MergesRolledBack != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.Merged) != 1 || stats.Merged[0] != (absorb.Merge{TargetID: "a", SourceID: "b"}) {
		t.Fatalf("unexpected merged pairs: %+v", stats.Merged)
	}
	if !gameB.Absorbed {
		t.Fatal("source game should be marked absorbed")
	}
	if gameA.Absorbed {
		t.Fatal("target game must stay active")
	}
	for _, fileID := range []string{"f1", "f2", "f3"} {
		if !gameA.HasMedia(fileID) {
			t.Fatalf("target should carry %s after the merge", fileID)
		}
	}
	if got := backend.ParentOf("f2"); got != "folder-a" {
		t.Fatalf("f2 should live in the target folder, got %q", got)
	}
	if got := backend.ParentOf("f3"); got != "folder-a" {
		t.Fatalf("f3 should live in the target folder, got %q", got)
	}
	if got := backend.NameOf("folder-b"); got != "ABSORBED_gameb_media" {
		t.Fatalf("absorbed folder should be renamed, got %q", got)
	}
	if len(gameB.AssociatedMedia) != 2 {
		t.Fatalf("absorbed game keeps its original media list, got %v", gameB.AssociatedMedia)
	}
}

func TestRunPartialFailureRollsBackCompletedMoves(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "one@example.com")
	seedFolder(backend, gameA, "folder-a", "f1")
	seedFolder(backend, gameB, "folder-b", "m1", "m2", "m3")
	backend.MoveErr = func(itemID, newParentID string) error {
		if itemID == "m3" && newParentID == "folder-a" {
			return errors.New("backend hiccup")
		}
		return nil
	}

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesRolledBack != 1 || stats.MergesCompleted != 0 || stats.RollbacksFailed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if gameB.Absorbed {
		t.Fatal("failed merge must leave the source active")
	}
	if len(gameA.AssociatedMedia) != 1 || !gameA.HasMedia("f1") {
		t.Fatalf("target media list should match its pre-merge state, got %v", gameA.AssociatedMedia)
	}
	for _, fileID := range []string{"m1", "m2", "m3"} {
		if got := backend.ParentOf(fileID); got != "folder-b" {
			t.Fatalf("%s should be back in the source folder, got %q", fileID, got)
		}
	}
	if got := backend.NameOf("folder-b"); got != "game_b_media" {
		t.Fatalf("failed merge must not rename the source folder, got %q", got)
	}
}

func TestRunRollbackPreservesSharedMedia(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "one@example.com")
	seedFolder(backend, gameA, "folder-a", "f1", "shared")
	seedFolder(backend, gameB, "folder-b", "m2")
	// The overlap file sits on both media lists and lives in the target's
	// folder after matching.
	gameB.AssociatedMedia = []string{"shared", "m2"}
	backend.MoveErr = func(itemID, newParentID string) error {
		if itemID == "m2" && newParentID == "folder-a" {
			return errors.New("backend hiccup")
		}
		return nil
	}

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesRolledBack != 1 || stats.RollbacksFailed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !gameA.HasMedia("shared") || !gameA.HasMedia("f1") || len(gameA.AssociatedMedia) != 2 {
		t.Fatalf("target media list should match its pre-merge state, got %v", gameA.AssociatedMedia)
	}
	if got := backend.ParentOf("shared"); got != "folder-a" {
		t.Fatalf("rollback must not displace a file the target owned pre-merge, got %q", got)
	}
	if got := backend.ParentOf("m2"); got != "folder-b" {
		t.Fatalf("unshared source media should be back in the source folder, got %q", got)
	}
	if gameB.Absorbed {
		t.Fatal("failed merge must leave the source active")
	}
}

func TestRunReportsRollbackFailure(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "one@example.com")
	seedFolder(backend, gameA, "folder-a", "f1")
	seedFolder(backend, gameB, "folder-b", "m1", "m2")
	backend.MoveErr = func(itemID, newParentID string) error {
		if itemID == "m2" && newParentID == "folder-a" {
			return errors.New("backend hiccup")
		}
		if itemID == "m1" && newParentID == "folder-b" {
			return errors.New("still down")
		}
		return nil
	}

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesRolledBack != 1 || stats.RollbacksFailed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if gameB.Absorbed {
		t.Fatal("failed merge must leave the source active")
	}
	// m1 is stranded in the target folder and stays on the target's list so
	// the run summary points at what needs manual fix-up.
	if got := backend.ParentOf("m1"); got != "folder-a" {
		t.Fatalf("stranded item should remain in the target folder, got %q", got)
	}
	if !gameA.HasMedia("m1") {
		t.Fatal("stranded item should remain on the target's media list")
	}
}

func TestRunExcludesAbsorbedGamesFromFurtherComparisons(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	game1 := newGame(t, "g1", "one@example.com")
	game2 := newGame(t, "g2", "one@example.com")
	game3 := newGame(t, "g3", "one@example.com")
	already := newGame(t, "g4", "one@example.com")
	already.Absorbed = true
	seedFolder(backend, game1, "folder-1", "f1")
	seedFolder(backend, game2, "folder-2", "f2")
	seedFolder(backend, game3, "folder-3", "f3")

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{game1, game2, game3, already})

	if stats.MergesCompleted != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// g2 and g3 both merge into g1; the (g2, g3) pair and every pair touching
	// the already-absorbed g4 are never compared.
	if stats.PairsCompared != 2 {
		t.Fatalf("absorbed games must not take part in comparisons, stats %+v", stats)
	}
	if !game2.Absorbed || !game3.Absorbed {
		t.Fatal("both later duplicates should be absorbed")
	}
	for _, fileID := range []string{"f1", "f2", "f3"} {
		if got := backend.ParentOf(fileID); got != "folder-1" {
			t.Fatalf("%s should live under the survivor's folder, got %q", fileID, got)
		}
	}
	if len(already.AssociatedMedia) != 0 || already.FolderID != "" {
		t.Fatal("pre-absorbed game must be left untouched")
	}
}

func TestRunLeavesDifferentRostersSeparate(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "two@example.com")
	seedFolder(backend, gameA, "folder-a", "f1")
	seedFolder(backend, gameB, "folder-b", "f2")

	absorber := absorb.NewAbsorber(backend, noEnsure, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.PairsCompared != 1 || stats.MergesCompleted != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if gameA.Absorbed || gameB.Absorbed {
		t.Fatal("distinct rosters must not merge")
	}
}

func TestRunProvisionsFolderlessTargetBeforeMerging(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "one@example.com")
	seedFolder(backend, gameB, "folder-b", "f1")

	ensurer := ensurerFunc(func(ctx context.Context, game *session.Game) error {
		folder, err := backend.CreateFolder(ctx, "game_"+game.ID+"_media", "parent-8")
		if err != nil {
			return err
		}
		game.FolderID = folder.ID
		game.FolderLink = "https://links.test/" + folder.ID
		return nil
	})

	absorber := absorb.NewAbsorber(backend, ensurer, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesCompleted != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if gameA.FolderID == "" {
		t.Fatal("target should have acquired a folder for the merge")
	}
	if got := backend.ParentOf("f1"); got != gameA.FolderID {
		t.Fatalf("media should live in the new target folder, got %q", got)
	}
}

func TestRunLeavesGamesSeparateWhenTargetProvisioningFails(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	gameA := newGame(t, "a", "one@example.com")
	gameB := newGame(t, "b", "one@example.com")
	seedFolder(backend, gameB, "folder-b", "f1")

	ensurer := ensurerFunc(func(ctx context.Context, game *session.Game) error {
		return errors.New("quota exceeded")
	})

	absorber := absorb.NewAbsorber(backend, ensurer, logging.NewNop())
	stats := absorber.Run(context.Background(), []*session.Game{gameA, gameB})

	if stats.MergesCompleted != 0 || stats.MergesRolledBack != 0 {
		t.Fatalf("a merge that never started must not count as rolled back: %+v", stats)
	}
	if gameB.Absorbed {
		t.Fatal("source must stay active when the target has no folder")
	}
	if got := backend.ParentOf("f1"); got != "folder-b" {
		t.Fatalf("media must stay in place, got %q", got)
	}
}
