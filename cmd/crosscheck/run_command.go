package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crosscheck/internal/logging"
	"crosscheck/internal/notify"
	"crosscheck/internal/runner"
	"crosscheck/internal/runstore"
	"crosscheck/internal/session"
	"crosscheck/internal/storage/drive"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logPath := filepath.Join(cfg.Paths.LogDir, "crosscheck.log")
			logger, err := logging.NewFromConfig(cfg, logPath)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer func() { _ = store.Close() }()

			backend := drive.NewConfiguredClient(cfg)

			r, err := runner.New(cfg, session.NewFileSource(cfg.Sessions.ExportPath), backend, store, notify.NewService(cfg), logger)
			if err != nil {
				return err
			}

			summary, err := r.Execute(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Games", strconv.Itoa(summary.GamesTotal)},
					{"Files considered", strconv.Itoa(summary.FilesConsidered)},
					{"Files matched", strconv.Itoa(summary.FilesMatched)},
					{"Files skipped", strconv.Itoa(summary.FilesSkipped)},
					{"Associations", strconv.Itoa(summary.Associations)},
					{"Folders created", strconv.Itoa(summary.FoldersCreated)},
					{"Folders failed", strconv.Itoa(summary.FoldersFailed)},
					{"Moves failed", strconv.Itoa(summary.MovesFailed)},
					{"Merges completed", strconv.Itoa(summary.MergesCompleted)},
					{"Merges rolled back", strconv.Itoa(summary.MergesRolledBack)},
					{"Rollbacks failed", strconv.Itoa(summary.RollbacksFailed)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
