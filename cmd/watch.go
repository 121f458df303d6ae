package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/chdm3u/internal/formatter"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/urfave/cli/v3"
)

// Watch organizes DIR, then keeps organizing it as new disc images arrive until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	dir, err := resolveDir(cmd.StringArg("dir"), false)
	if err != nil {
		return err
	}

	debounce, err := r.config.Watch.DebounceDuration()
	if err != nil {
		return err
	}
	if cmd.IsSet("debounce") {
		debounce = cmd.Duration("debounce")
	}

	if err := r.attachJournal(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.writePlain("Processing files in: %s\n", dir); err != nil {
		return err
	}
	return r.organizer.Watch(ctx, dir, debounce, func(result *models.RunResult, err error) {
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				r.logger.Error("run failed", "dir", dir, "error", err)
			}
			return
		}
		if result.NoMatches {
			r.logger.Debug("no multi-disc files found", "dir", dir)
			return
		}
		if werr := r.writeReport(result, formatter.FormatText); werr != nil {
			r.logger.Error("failed to write report", "error", werr)
		}
	})
}
