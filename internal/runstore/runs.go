package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound indicates no run with the requested id exists.
var ErrRunNotFound = errors.New("run not found")

// Run is one completed reconciliation pass with its summary counters.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	FilesConsidered  int
	FilesMatched     int
	FilesSkipped     int
	Associations     int
	FoldersCreated   int
	FoldersFailed    int
	MovesFailed      int
	MergesCompleted  int
	MergesRolledBack int
	RollbacksFailed  int
}

// GameOutcome records where one game ended up after a run.
type GameOutcome struct {
	RunID      string
	GameID     string
	FolderID   string
	FolderLink string
	MediaCount int
	Absorbed   bool
}

// SaveRun persists a run and its per-game outcomes in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, outcomes []GameOutcome) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `
INSERT INTO runs (
    id, started_at, finished_at,
    files_considered, files_matched, files_skipped, associations,
    folders_created, folders_failed, moves_failed,
    merges_completed, merges_rolled_back, rollbacks_failed
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
			run.FilesConsidered, run.FilesMatched, run.FilesSkipped, run.Associations,
			run.FoldersCreated, run.FoldersFailed, run.MovesFailed,
			run.MergesCompleted, run.MergesRolledBack, run.RollbacksFailed,
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}

		for _, outcome := range outcomes {
			_, err = tx.ExecContext(ctx, `
INSERT INTO game_outcomes (run_id, game_id, folder_id, folder_link, media_count, absorbed)
VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, outcome.GameID, outcome.FolderID, outcome.FolderLink,
				outcome.MediaCount, boolToInt(outcome.Absorbed),
			)
			if err != nil {
				return fmt.Errorf("insert outcome for game %s: %w", outcome.GameID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run %s: %w", run.ID, err)
		}
		return nil
	})
}

// GetRun loads one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first, up to limit. A limit
// of zero or less means no cap.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := selectRuns + " ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GameOutcomes returns the per-game outcomes for a run in game id order.
func (s *Store) GameOutcomes(ctx context.Context, runID string) ([]GameOutcome, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, game_id, folder_id, folder_link, media_count, absorbed
FROM game_outcomes WHERE run_id = ? ORDER BY game_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes for run %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []GameOutcome
	for rows.Next() {
		var outcome GameOutcome
		var absorbed int
		if err := rows.Scan(
			&outcome.RunID, &outcome.GameID, &outcome.FolderID,
			&outcome.FolderLink, &outcome.MediaCount, &absorbed,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcome.Absorbed = absorbed != 0
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

const selectRuns = `
SELECT id, started_at, finished_at,
    files_considered, files_matched, files_skipped, associations,
    folders_created, folders_failed, moves_failed,
    merges_completed, merges_rolled_back, rollbacks_failed
FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt string
	)
	err := row.Scan(
		&run.ID, &startedAt, &finishedAt,
		&run.FilesConsidered, &run.FilesMatched, &run.FilesSkipped, &run.Associations,
		&run.FoldersCreated, &run.FoldersFailed, &run.MovesFailed,
		&run.MergesCompleted, &run.MergesRolledBack, &run.RollbacksFailed,
	)
	if err != nil {
		return Run{}, err
	}
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
