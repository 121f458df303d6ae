package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID        string     `json:"id"`
	Sequence  int        `json:"sequence"`
	Directory string     `json:"directory"`
	Playlists int        `json:"playlists"`
	Renamed   int        `json:"renamed"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	CreatedAt time.Time  `json:"created_at"`
	UndoneAt  *time.Time `json:"undone_at,omitempty"`
}

func newHistoryEntry(run *models.Run) historyEntry {
	return historyEntry{
		ID:        run.ID,
		Sequence:  run.Sequence,
		Directory: run.Directory,
		Playlists: run.Playlists,
		Renamed:   run.Renamed,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
		CreatedAt: run.CreatedAt,
		UndoneAt:  run.UndoneAt,
	}
}

// History lists journaled runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidArgument)
	}

	repo, err := r.openJournal()
	if err != nil {
		return err
	}

	runs, err := repo.List(cmd.String("dir"), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, len(runs))
		for i, run := range runs {
			entries[i] = newHistoryEntry(run)
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}

	for _, run := range runs {
		status := ""
		if run.Undone() {
			status = " (undone)"
		}
		if err := r.writePlain("#%d %s  %s  %s%s\n", run.Sequence, run.CreatedAt.Local().Format(time.DateTime), run.ID, run.Directory, status); err != nil {
			return err
		}
		if err := r.writePlain("    playlists: %d, renamed: %d, skipped: %d, failed: %d\n", run.Playlists, run.Renamed, run.Skipped, run.Failed); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverts RUN_ID, or the latest run when omitted.
func (r *Runner) Undo(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.openJournal(); err != nil {
		return err
	}

	result, err := r.organizer.Undo(ctx, cmd.StringArg("run_id"), nil)
	if err != nil {
		return err
	}

	var lines []string
	for _, e := range result.Restored {
		lines = append(lines, fmt.Sprintf("Restored: %s -> %s", e.NewName, e.OriginalName))
	}
	for _, e := range result.Skipped {
		lines = append(lines, fmt.Sprintf("Skipped: %s", e.NewName))
	}
	for _, e := range result.Failed {
		lines = append(lines, fmt.Sprintf("Error restoring %s", e.NewName))
	}
	for _, name := range result.RemovedPlaylists {
		lines = append(lines, fmt.Sprintf("Removed playlist: %s", name))
	}
	for _, name := range result.KeptPlaylists {
		lines = append(lines, fmt.Sprintf("Kept playlist: %s", name))
	}

	for _, line := range lines {
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return r.writePlain("\nTotal: Restored %d file(s) from run #%d\n", len(result.Restored), result.Run.Sequence)
}
