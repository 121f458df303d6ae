package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/desertthunder/chdm3u/internal/ui"
)

const tuiLogPath = "~/.chdm3u/tui.log"

// TUI previews the run over dir and performs it once the user confirms.
//
// Returns a nil result when the user quits without confirming. A run stopped with ctrl+c
// returns its partial result together with [context.Canceled].
func (r *Runner) TUI(ctx context.Context, dir string) (*models.RunResult, error) {
	// Redirect logs to file to avoid interfering with TUI rendering
	path, err := shared.ExpandHome(tuiLogPath)
	if err != nil {
		return nil, err
	}
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	previous := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(previous)

	model := ui.NewModel(ctx, dir, r.organizer)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(r.input), tea.WithOutput(r.output))

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return model.Result(), err
		}
		return nil, err
	}

	result := model.Result()
	if result != nil && result.NoMatches {
		return result, nil
	}
	if !model.Confirmed() {
		return nil, nil
	}
	return result, nil
}
