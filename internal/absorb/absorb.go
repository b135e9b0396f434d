package absorb

import (
	"context"
	"fmt"
	"log/slog"

	"crosscheck/internal/logging"
	"crosscheck/internal/reconcile"
	"crosscheck/internal/session"
	"crosscheck/internal/storage"
)

// Status tracks one merge attempt through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusMoving     Status = "moving"
	StatusCompleted  Status = "completed"
	StatusRolledBack Status = "rolled_back"
)

// RollbackError reports a media item stranded in the target folder because
// the compensating move back to the source folder failed. There are no
// retries; the affected merge requires manual fix-up.
type RollbackError struct {
	SourceGameID string
	FileID       string
	Err          error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback move of %s to game %s folder failed: %v", e.FileID, e.SourceGameID, e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}

// FolderEnsurer provisions a media folder for a game that does not have one.
type FolderEnsurer interface {
	EnsureFolder(ctx context.Context, game *session.Game) error
}

// Merge records one completed absorption: the source game folded into the
// target.
type Merge struct {
	TargetID string
	SourceID string
}

// MergeStats summarizes one absorption pass.
type MergeStats struct {
	PairsCompared    int
	MergesCompleted  int
	MergesRolledBack int
	RollbacksFailed  int
	Merged           []Merge
}

// Absorber detects duplicate game sessions and merges each later duplicate
// into the earliest game carrying the same roster.
type Absorber struct {
	backend storage.Backend
	folders FolderEnsurer
	logger  *slog.Logger
}

// NewAbsorber constructs an absorber over the given backend. The folder
// ensurer is consulted when a merge target has no media folder yet.
func NewAbsorber(backend storage.Backend, folders FolderEnsurer, logger *slog.Logger) *Absorber {
	return &Absorber{
		backend: backend,
		folders: folders,
		logger:  logging.NewComponentLogger(logger, "absorber"),
	}
}

// Run scans the games pairwise in input order and merges every duplicate
// roster it finds, greedily, first match wins. A game absorbed during the
// scan joins an exclusion set and takes part in no further comparisons. A
// failed merge leaves both games separate and the scan continues.
func (a *Absorber) Run(ctx context.Context, games []*session.Game) MergeStats {
	var stats MergeStats
	excluded := make(map[string]struct{})
	for _, game := range games {
		if game.Absorbed {
			excluded[game.ID] = struct{}{}
		}
	}

	for i, target := range games {
		if _, gone := excluded[target.ID]; gone {
			continue
		}
		for _, source := range games[i+1:] {
			if _, gone := excluded[source.ID]; gone {
				continue
			}
			stats.PairsCompared++
			if !session.SameRoster(target, source) {
				continue
			}
			status, rollbackErr := a.merge(ctx, target, source)
			switch status {
			case StatusCompleted:
				excluded[source.ID] = struct{}{}
				stats.MergesCompleted++
				stats.Merged = append(stats.Merged, Merge{TargetID: target.ID, SourceID: source.ID})
			case StatusRolledBack:
				stats.MergesRolledBack++
				if rollbackErr != nil {
					stats.RollbacksFailed++
				}
			}
		}
	}

	a.logger.Info("absorption pass complete",
		logging.Int("pairs_compared", stats.PairsCompared),
		logging.Int("merges_completed", stats.MergesCompleted),
		logging.Int("merges_rolled_back", stats.MergesRolledBack),
		logging.Int("rollbacks_failed", stats.RollbacksFailed),
	)
	return stats
}

// merge moves the source game's media into the target's folder one item at a
// time, recording each completed move in a ledger before attempting the next.
// Files the two games share are moved but never ledgered: they belong to the
// target regardless of how the merge ends. A failed move replays the ledger
// in compensating moves back to the source folder. The returned status is
// StatusCompleted when every item landed in the target, StatusRolledBack
// after a move failure, and StatusPending when the merge never started
// because the target could not get a folder. A non-nil error means the
// rollback itself failed partway.
func (a *Absorber) merge(ctx context.Context, target, source *session.Game) (Status, error) {
	logger := a.logger.With(
		logging.String(logging.FieldGameID, target.ID),
		logging.String("source_game_id", source.ID),
	)
	logger.Info("duplicate roster found, absorbing", logging.String("status", string(StatusPending)))

	if len(source.AssociatedMedia) > 0 && target.FolderID == "" {
		if err := a.folders.EnsureFolder(ctx, target); err != nil {
			logger.Warn("target has no folder and provisioning failed, games left separate",
				logging.Error(err),
			)
			return StatusPending, nil
		}
	}

	logger.Debug("moving media", logging.String("status", string(StatusMoving)))
	var ledger []string
	for _, fileID := range append([]string(nil), source.AssociatedMedia...) {
		owned := target.HasMedia(fileID)
		if err := a.backend.Move(ctx, fileID, target.FolderID); err != nil {
			logger.Error("move failed mid-merge, rolling back",
				logging.String(logging.FieldFileID, fileID),
				logging.Error(err),
			)
			return StatusRolledBack, a.rollback(ctx, target, source, ledger, logger)
		}
		// Files the target already owned (overlap matches) stay out of the
		// ledger; a rollback must never displace them.
		if owned {
			continue
		}
		ledger = append(ledger, fileID)
		target.AddMedia(fileID)
	}

	source.Absorbed = true
	if source.FolderID != "" {
		name := reconcile.AbsorbedFolderName(source.ID)
		if err := a.backend.Rename(ctx, source.FolderID, name); err != nil {
			logger.Warn("absorbed folder rename failed",
				logging.String("folder_id", source.FolderID),
				logging.Error(err),
			)
		}
	}
	logger.Info("merge complete",
		logging.String("status", string(StatusCompleted)),
		logging.Int("media_moved", len(ledger)),
	)
	return StatusCompleted, nil
}

// rollback compensates a partial merge by moving each ledger item back into
// the source folder and dropping it from the target's media list. A failed
// compensating move is reported and ends the rollback; the remaining items
// need manual fix-up.
func (a *Absorber) rollback(ctx context.Context, target, source *session.Game, ledger []string, logger *slog.Logger) error {
	for _, fileID := range ledger {
		if err := a.backend.Move(ctx, fileID, source.FolderID); err != nil {
			rbErr := &RollbackError{SourceGameID: source.ID, FileID: fileID, Err: err}
			logger.Error("rollback failed, manual fix-up required", logging.Error(rbErr))
			return rbErr
		}
		target.RemoveMedia(fileID)
	}
	logger.Info("merge rolled back",
		logging.String("status", string(StatusRolledBack)),
		logging.Int("media_restored", len(ledger)),
	)
	return nil
}
