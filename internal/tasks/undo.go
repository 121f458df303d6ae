package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/chdm3u/internal/discset"
	"github.com/desertthunder/chdm3u/internal/formatter"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
)

// UndoResult summarizes a reverted run.
type UndoResult struct {
	Run              *models.Run
	Restored         []models.RunEntry // Renamed back to the original name
	Skipped          []models.RunEntry // Left alone: prefixed file missing or original name taken
	Failed           []models.RunEntry // Rename back returned an error
	RemovedPlaylists []string
	KeptPlaylists    []string // Modified since the run, or not created by it
}

// Undo reverts the journaled run with the given ID, or the latest run when id is empty.
//
// Only entries the run actually renamed are restored. A playlist is removed only when
// the run renamed at least one of its discs, every such disc was restored, and the file
// still holds exactly what the run wrote.
func (o *Organizer) Undo(ctx context.Context, id string, progress chan<- ProgressUpdate) (*UndoResult, error) {
	if o.journal == nil {
		return nil, fmt.Errorf("%w: enable the journal to undo runs", shared.ErrJournalUnavailable)
	}

	var (
		run *models.Run
		err error
	)
	if id == "" {
		run, err = o.journal.Latest()
	} else {
		run, err = o.journal.Get(id)
	}
	if err != nil {
		return nil, err
	}

	if run.Undone() {
		return nil, fmt.Errorf("%w: run %s was already undone", shared.ErrNothingToUndo, run.ID)
	}

	if err := discset.CheckDirectory(run.Directory); err != nil {
		return nil, err
	}

	logger := shared.WithLogger(o.logger, "dir", run.Directory, "run_id", run.ID)
	result := &UndoResult{Run: run}

	renamedIn := make(map[string]bool)
	unrestored := make(map[string]bool)
	playlists := make(map[string][]string)
	var order []string

	for _, e := range run.Entries {
		if _, ok := playlists[e.Playlist]; !ok {
			order = append(order, e.Playlist)
		}
		playlists[e.Playlist] = append(playlists[e.Playlist], e.NewName)
		if e.Status == models.StatusRenamed {
			renamedIn[e.Playlist] = true
		}
	}

	for i := len(run.Entries) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e := run.Entries[i]
		if e.Status != models.StatusRenamed {
			continue
		}

		o.sendProgress(progress, restoreUpdate(len(run.Entries)-i, len(run.Entries), e))

		src := filepath.Join(run.Directory, e.NewName)
		dst := filepath.Join(run.Directory, e.OriginalName)
		if !o.exists(run.Directory, e.NewName) || o.exists(run.Directory, e.OriginalName) {
			logger.Warn("cannot restore", "file", e.NewName)
			unrestored[e.Playlist] = true
			result.Skipped = append(result.Skipped, e)
			continue
		}

		if err := o.rename(src, dst); err != nil {
			logger.Error("failed to restore", "file", e.NewName, "error", err)
			unrestored[e.Playlist] = true
			result.Failed = append(result.Failed, e)
			continue
		}

		logger.Info("restored", "from", e.NewName, "to", e.OriginalName)
		result.Restored = append(result.Restored, e)
	}

	for _, name := range order {
		path := filepath.Join(run.Directory, name)
		if !renamedIn[name] || unrestored[name] || !sameContent(path, formatter.RenderM3U(playlists[name])) {
			result.KeptPlaylists = append(result.KeptPlaylists, name)
			continue
		}
		if err := os.Remove(path); err != nil {
			logger.Error("failed to remove playlist", "playlist", name, "error", err)
			result.KeptPlaylists = append(result.KeptPlaylists, name)
			continue
		}
		logger.Info("removed playlist", "playlist", name)
		result.RemovedPlaylists = append(result.RemovedPlaylists, name)
	}

	if err := o.journal.MarkUndone(run.ID); err != nil {
		return result, fmt.Errorf("failed to mark run undone: %w", err)
	}

	return result, nil
}

func sameContent(path string, want []byte) bool {
	got, err := os.ReadFile(path)
	return err == nil && bytes.Equal(got, want)
}
