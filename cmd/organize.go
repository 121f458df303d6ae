package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/chdm3u/internal/discset"
	"github.com/desertthunder/chdm3u/internal/formatter"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/urfave/cli/v3"
)

// Organize renames the multi-disc images in DIR and writes their playlists.
//
// DIR defaults to the working directory. In interactive mode a banner is printed,
// the run is previewed and confirmed in the TUI, and the command pauses before returning.
func (r *Runner) Organize(ctx context.Context, cmd *cli.Command) error {
	interactive := cmd.Bool("interactive")
	dryRun := cmd.Bool("dry-run")

	format, err := formatter.ParseFormat(cmd.String("report"))
	if err != nil {
		return err
	}

	dir, err := resolveDir(cmd.StringArg("dir"), interactive)
	if err != nil {
		return err
	}

	if interactive {
		if err := r.writePlainHeader("Disc Playlist Creator", "Creates m3u for multi-disc games for use in muOS"); err != nil {
			return err
		}
	}

	if err := discset.CheckDirectory(dir); err != nil {
		if interactive {
			if werr := r.writePlain("Error: '%s' is not a valid directory\n", dir); werr != nil {
				return werr
			}
			r.pause()
		}
		return err
	}

	if !dryRun {
		if err := r.attachJournal(cmd); err != nil {
			return err
		}
	}

	if err := r.writeProcessing(format, dir); err != nil {
		return err
	}

	var result *models.RunResult
	switch {
	case interactive && !dryRun:
		result, err = r.interactive(ctx, dir)
		if err != nil && !errors.Is(err, context.Canceled) {
			if werr := r.writePlain("Error: %v\n", err); werr != nil {
				return werr
			}
			r.pause()
			return err
		}
		if result == nil && err == nil {
			if werr := r.writePlain("Cancelled, nothing was changed\n"); werr != nil {
				return werr
			}
			r.pause()
			return nil
		}
	case dryRun:
		result, err = r.organizer.Plan(dir)
	default:
		result, err = r.organizer.Run(ctx, dir, nil)
	}

	if result != nil {
		if werr := r.writeReport(result, format); werr != nil {
			return werr
		}
	}

	if interactive {
		r.pause()
	}

	if errors.Is(err, context.Canceled) {
		r.logger.Warn("run interrupted, re-run to finish", "dir", dir)
	}
	return err
}

// resolveDir returns arg, or the default directory when arg is empty.
func resolveDir(arg string, interactive bool) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if !interactive {
		return ".", nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidDirectory, err)
	}
	return wd, nil
}

// writeProcessing prints the directory being processed; machine-readable reports stay clean.
func (r *Runner) writeProcessing(format formatter.Format, dir string) error {
	if format == formatter.FormatText {
		return r.writePlain("Processing files in: %s\n", dir)
	}
	return nil
}

func (r *Runner) writeReport(result *models.RunResult, format formatter.Format) error {
	report, err := formatter.Report(result, format)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
