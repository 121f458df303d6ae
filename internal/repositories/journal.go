package repositories

import (
	"fmt"
	"path/filepath"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/tasks"
)

var _ tasks.Journal = (*JournalAdapter)(nil)

// JournalAdapter implements tasks.Journal using RunRepository.
type JournalAdapter struct {
	repo *RunRepository
}

// NewJournalAdapter creates a new JournalAdapter with the given repository
func NewJournalAdapter(repo *RunRepository) *JournalAdapter {
	return &JournalAdapter{repo: repo}
}

// Record stores result as a new run and returns its ID.
//
// The directory is stored as an absolute path so the run can be undone from anywhere.
func (a *JournalAdapter) Record(result *models.RunResult) (string, error) {
	run := result.ToRun()
	if abs, err := filepath.Abs(run.Directory); err == nil {
		run.Directory = abs
	}
	if err := a.repo.Create(run); err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

func (a *JournalAdapter) Latest() (*models.Run, error) { return a.repo.Latest() }

func (a *JournalAdapter) Get(id string) (*models.Run, error) { return a.repo.Get(id) }

func (a *JournalAdapter) MarkUndone(id string) error { return a.repo.MarkUndone(id) }
