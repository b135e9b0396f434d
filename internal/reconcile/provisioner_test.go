package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"crosscheck/internal/logging"
	"crosscheck/internal/reconcile"
	"crosscheck/internal/testsupport"
)

func TestLookupAcceptsPaddedAndUnpaddedMonthPrefixes(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	backend.AddFolder("parent-1", "1_jan_2024", "parent-root")
	backend.AddFolder("parent-10", "10_oct_2024", "parent-root")
	backend.AddFolder("parent-8", "08_aug_2024", "parent-root")
	backend.AddFolder("notes", "scratch", "parent-root")

	provisioner := reconcile.NewProvisioner(backend, "parent-root", "https://links.test", logging.NewNop())
	if err := provisioner.LoadParents(context.Background()); err != nil {
		t.Fatalf("LoadParents: %v", err)
	}

	cases := []struct {
		start      string
		wantParent string
	}{
		{"2024-01-05 10:00:00", "parent-1"},
		{"2024-08-11 19:50:00", "parent-8"},
		{"2024-10-02 12:00:00", "parent-10"},
	}
	for _, tc := range cases {
		game := newGame(t, "g-"+tc.wantParent, tc.start, tc.start)
		if err := provisioner.EnsureFolder(context.Background(), game); err != nil {
			t.Fatalf("EnsureFolder(%s): %v", tc.start, err)
		}
		if got := backend.ParentOf(game.FolderID); got != tc.wantParent {
			t.Fatalf("game starting %s landed under %q, want %q", tc.start, got, tc.wantParent)
		}
	}
}

func TestLookupFailsWithoutMatchingParent(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	backend.AddFolder("parent-9", "9_sep_2024", "parent-root")
	provisioner := reconcile.NewProvisioner(backend, "parent-root", "https://links.test", logging.NewNop())
	if err := provisioner.LoadParents(context.Background()); err != nil {
		t.Fatalf("LoadParents: %v", err)
	}

	game := newGame(t, "g1", "2024-12-01 10:00:00", "2024-12-01 11:00:00")
	err := provisioner.EnsureFolder(context.Background(), game)
	if !errors.Is(err, reconcile.ErrNoParent) {
		t.Fatalf("expected ErrNoParent, got %v", err)
	}
	if game.FolderID != "" {
		t.Fatal("failed provisioning must not record a folder")
	}
}

func TestEnsureFolderIsIdempotent(t *testing.T) {
	backend := testsupport.NewMemoryBackend()
	provisioner := newProvisioner(t, backend)

	game := newGame(t, "g1", "2024-08-11 19:00:00", "2024-08-11 21:00:00")
	if err := provisioner.EnsureFolder(context.Background(), game); err != nil {
		t.Fatalf("EnsureFolder: %v", err)
	}
	first := game.FolderID
	if err := provisioner.EnsureFolder(context.Background(), game); err != nil {
		t.Fatalf("EnsureFolder (second): %v", err)
	}
	if game.FolderID != first {
		t.Fatal("EnsureFolder must not replace an existing folder")
	}
}

func TestFolderNames(t *testing.T) {
	if got := reconcile.FolderName("g7"); got != "game_g7_media" {
		t.Fatalf("unexpected folder name %q", got)
	}
	if got := reconcile.AbsorbedFolderName("g7"); got != "ABSORBED_gameg7_media" {
		t.Fatalf("unexpected absorbed name %q", got)
	}
}
