package reconcile

import (
	"context"
	"log/slog"
	"time"

	"crosscheck/internal/logging"
	"crosscheck/internal/media"
	"crosscheck/internal/session"
)

// MatchStats summarizes one matching pass.
type MatchStats struct {
	FilesConsidered int
	FilesMatched    int
	Associations    int
	FoldersCreated  int
	FoldersFailed   int
	MovesFailed     int
}

// Matcher assigns media files to the games whose tolerant windows contain
// their creation timestamps.
type Matcher struct {
	provisioner *Provisioner
	leeway      time.Duration
	logger      *slog.Logger
}

// NewMatcher constructs an interval matcher with the configured leeway.
func NewMatcher(provisioner *Provisioner, leeway time.Duration, logger *slog.Logger) *Matcher {
	return &Matcher{
		provisioner: provisioner,
		leeway:      leeway,
		logger:      logging.NewComponentLogger(logger, "matcher"),
	}
}

// Match evaluates every indexed file against every game's window, mutating
// the games in place. A file inside several overlapping windows is recorded
// against each of those games exactly once. Folder provisioning failures fail
// closed: the game keeps no folder and none of its matches are recorded for
// this run. Move failures are reported and skipped past; the association is
// still recorded.
func (m *Matcher) Match(ctx context.Context, games []*session.Game, index *media.Index) MatchStats {
	stats := MatchStats{FilesConsidered: index.Len()}
	matchedFiles := make(map[string]struct{})

	for _, game := range games {
		window := NewWindow(game.StartTime, game.EndTime, m.leeway)
		gameLogger := m.logger.With(logging.String(logging.FieldGameID, game.ID))

		for _, fileID := range index.IDs() {
			takenAt, ok := index.TakenAt(fileID)
			if !ok || !window.Contains(takenAt) {
				continue
			}
			if game.HasMedia(fileID) {
				continue
			}

			if game.FolderID == "" {
				if err := m.provisioner.EnsureFolder(ctx, game); err != nil {
					stats.FoldersFailed++
					gameLogger.Warn("folder provisioning failed, discarding matches for game",
						logging.Error(err),
					)
					break
				}
				stats.FoldersCreated++
			}

			if err := m.provisioner.Move(ctx, fileID, game.FolderID); err != nil {
				stats.MovesFailed++
				gameLogger.Error("move failed, file left in place",
					logging.String(logging.FieldFileID, fileID),
					logging.Error(err),
				)
			}

			game.AddMedia(fileID)
			matchedFiles[fileID] = struct{}{}
			stats.Associations++
			gameLogger.Debug("file matched",
				logging.String(logging.FieldFileID, fileID),
			)
		}
	}

	stats.FilesMatched = len(matchedFiles)
	m.logger.Info("matching pass complete",
		logging.Int("files_considered", stats.FilesConsidered),
		logging.Int("files_matched", stats.FilesMatched),
		logging.Int("associations", stats.Associations),
		logging.Int("folders_created", stats.FoldersCreated),
		logging.Int("folders_failed", stats.FoldersFailed),
		logging.Int("moves_failed", stats.MovesFailed),
	)
	return stats
}
