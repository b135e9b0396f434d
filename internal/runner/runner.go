package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"crosscheck/internal/absorb"
	"crosscheck/internal/config"
	"crosscheck/internal/logging"
	"crosscheck/internal/media"
	"crosscheck/internal/notify"
	"crosscheck/internal/reconcile"
	"crosscheck/internal/runstore"
	"crosscheck/internal/session"
	"crosscheck/internal/storage"
)

// ErrAlreadyRunning indicates another crosscheck process holds the run lock.
var ErrAlreadyRunning = errors.New("another crosscheck run is in progress")

// Summary aggregates everything one run did.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	GamesTotal       int
	FilesConsidered  int
	FilesSkipped     int
	FilesMatched     int
	Associations     int
	FoldersCreated   int
	FoldersFailed    int
	MovesFailed      int
	MergesCompleted  int
	MergesRolledBack int
	RollbacksFailed  int
}

// Runner executes one full reconciliation pass: scan, match, absorb,
// persist, notify.
type Runner struct {
	cfg      *config.Config
	source   session.Source
	backend  storage.Backend
	store    *runstore.Store
	notifier notify.Service
	logger   *slog.Logger

	lockPath string
	lock     *flock.Flock
}

// New constructs a runner with initialized dependencies.
func New(cfg *config.Config, source session.Source, backend storage.Backend, store *runstore.Store, notifier notify.Service, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || source == nil || backend == nil || store == nil {
		return nil, errors.New("runner requires config, source, backend, and store")
	}
	if notifier == nil {
		notifier = notify.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "crosscheck.lock")
	return &Runner{
		cfg:      cfg,
		source:   source,
		backend:  backend,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "runner"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the location of the single-instance lock file.
func (r *Runner) LockPath() string {
	return r.lockPath
}

// Execute performs one reconciliation run over a fresh snapshot. The run
// lock guards against concurrent runs sharing a state dir; a held lock is a
// hard error. Inside the run no single game failure aborts the pass.
func (r *Runner) Execute(ctx context.Context) (*Summary, error) {
	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, r.lockPath)
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	runLogger := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))
	runLogger.Info("run started")

	games, err := r.source.Games(ctx)
	if err != nil {
		r.notifyError(ctx, err, "session snapshot")
		return nil, fmt.Errorf("load game sessions: %w", err)
	}
	summary.GamesTotal = len(games)

	scanner := media.NewScanner(r.backend, r.cfg.Storage.UnprocessedFolderID, r.cfg.Matching.TimestampLayouts, runLogger)
	scan, err := scanner.Scan(ctx)
	if err != nil {
		r.notifyError(ctx, err, "media scan")
		return nil, fmt.Errorf("scan unprocessed media: %w", err)
	}
	summary.FilesConsidered = len(scan.Records)
	summary.FilesSkipped = scan.Skipped

	if notifyErr := r.notifier.NotifyRunStarted(ctx, summary.RunID, len(games), len(scan.Records)); notifyErr != nil {
		runLogger.Warn("run start notification failed", logging.Error(notifyErr))
	}

	provisioner := reconcile.NewProvisioner(r.backend, r.cfg.Storage.ParentRootID, r.cfg.Storage.LinkBaseURL, runLogger)
	if err := provisioner.LoadParents(ctx); err != nil {
		r.notifyError(ctx, err, "parent folder lookup")
		return nil, fmt.Errorf("load parent folders: %w", err)
	}

	matcher := reconcile.NewMatcher(provisioner, r.cfg.Leeway(), runLogger)
	matchStats := matcher.Match(ctx, games, scan.Index)
	summary.FilesMatched = matchStats.FilesMatched
	summary.Associations = matchStats.Associations
	summary.FoldersCreated = matchStats.FoldersCreated
	summary.FoldersFailed = matchStats.FoldersFailed
	summary.MovesFailed = matchStats.MovesFailed

	absorber := absorb.NewAbsorber(r.backend, provisioner, runLogger)
	mergeStats := absorber.Run(ctx, games)
	summary.MergesCompleted = mergeStats.MergesCompleted
	summary.MergesRolledBack = mergeStats.MergesRolledBack
	summary.RollbacksFailed = mergeStats.RollbacksFailed

	for _, merge := range mergeStats.Merged {
		if notifyErr := r.notifier.NotifyGameAbsorbed(ctx, merge.TargetID, merge.SourceID); notifyErr != nil {
			runLogger.Warn("absorption notification failed",
				logging.String(logging.FieldGameID, merge.TargetID),
				logging.Error(notifyErr),
			)
		}
	}

	for _, game := range games {
		if game.Absorbed || game.FolderID == "" {
			continue
		}
		if notifyErr := r.notifier.NotifyFolderReady(ctx, game.ID, game.FolderLink, len(game.AssociatedMedia)); notifyErr != nil {
			runLogger.Warn("folder notification failed",
				logging.String(logging.FieldGameID, game.ID),
				logging.Error(notifyErr),
			)
		}
	}

	summary.FinishedAt = time.Now().UTC()
	if err := r.store.SaveRun(ctx, summary.Record(), outcomes(summary.RunID, games)); err != nil {
		r.notifyError(ctx, err, "run persistence")
		return summary, fmt.Errorf("persist run %s: %w", summary.RunID, err)
	}

	if notifyErr := r.notifier.NotifyRunCompleted(ctx, summary.RunID, summary.FilesMatched, summary.MergesCompleted, summary.FinishedAt.Sub(summary.StartedAt)); notifyErr != nil {
		runLogger.Warn("run completion notification failed", logging.Error(notifyErr))
	}

	runLogger.Info("run complete",
		logging.Int("games", summary.GamesTotal),
		logging.Int("files_considered", summary.FilesConsidered),
		logging.Int("files_matched", summary.FilesMatched),
		logging.Int("files_skipped", summary.FilesSkipped),
		logging.Int("merges_completed", summary.MergesCompleted),
		logging.Int("merges_rolled_back", summary.MergesRolledBack),
	)
	return summary, nil
}

func (r *Runner) notifyError(ctx context.Context, err error, label string) {
	if notifyErr := r.notifier.NotifyError(ctx, err, label); notifyErr != nil {
		r.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
}

// Record converts the summary into its persisted form.
func (s *Summary) Record() runstore.Run {
	return runstore.Run{
		ID:               s.RunID,
		StartedAt:        s.StartedAt,
		FinishedAt:       s.FinishedAt,
		FilesConsidered:  s.FilesConsidered,
		FilesMatched:     s.FilesMatched,
		FilesSkipped:     s.FilesSkipped,
		Associations:     s.Associations,
		FoldersCreated:   s.FoldersCreated,
		FoldersFailed:    s.FoldersFailed,
		MovesFailed:      s.MovesFailed,
		MergesCompleted:  s.MergesCompleted,
		MergesRolledBack: s.MergesRolledBack,
		RollbacksFailed:  s.RollbacksFailed,
	}
}

func outcomes(runID string, games []*session.Game) []runstore.GameOutcome {
	result := make([]runstore.GameOutcome, 0, len(games))
	for _, game := range games {
		result = append(result, runstore.GameOutcome{
			RunID:      runID,
			GameID:     game.ID,
			FolderID:   game.FolderID,
			FolderLink: game.FolderLink,
			MediaCount: len(game.AssociatedMedia),
			Absorbed:   game.Absorbed,
		})
	}
	return result
}
