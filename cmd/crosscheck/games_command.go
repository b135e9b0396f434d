package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crosscheck/internal/runstore"
)

func newGamesCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Show per-game outcomes from the latest run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			run, ok, err := resolveRun(cmd, store, runID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			outcomes, err := store.GameOutcomes(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run %s (%d games)\n", run.ID, len(outcomes))

			rows := make([][]string, 0, len(outcomes))
			for _, outcome := range outcomes {
				status := "active"
				if outcome.Absorbed {
					status = "absorbed"
				}
				rows = append(rows, []string{
					outcome.GameID,
					status,
					strconv.Itoa(outcome.MediaCount),
					outcome.FolderLink,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Game", "Status", "Media", "Folder"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id to show (defaults to the most recent run)")
	return cmd
}

func resolveRun(cmd *cobra.Command, store *runstore.Store, runID string) (runstore.Run, bool, error) {
	if runID != "" {
		run, err := store.GetRun(cmd.Context(), runID)
		if err != nil {
			return runstore.Run{}, false, err
		}
		return run, true, nil
	}
	runs, err := store.ListRuns(cmd.Context(), 1)
	if err != nil {
		return runstore.Run{}, false, err
	}
	if len(runs) == 0 {
		return runstore.Run{}, false, nil
	}
	return runs[0], true, nil
}
