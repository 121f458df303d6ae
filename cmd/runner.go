package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/repositories"
	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/desertthunder/chdm3u/internal/tasks"
	"github.com/urfave/cli/v3"
)

// InteractiveFunc runs an interactive session over dir and returns the completed run, if any.
type InteractiveFunc func(ctx context.Context, dir string) (*models.RunResult, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	organizer   *tasks.Organizer
	db          *sql.DB
	interactive InteractiveFunc
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	Interactive InteractiveFunc
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = strings.NewReader("")
	}

	r := &Runner{
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
	}
	r.configure(opts.Config)

	r.interactive = opts.Interactive
	if r.interactive == nil {
		r.interactive = r.TUI
	}
	return r
}

// configure applies config and rebuilds the organizer from it.
func (r *Runner) configure(config *shared.Config) {
	r.config = config
	r.organizer = tasks.NewOrganizer(tasks.Options{
		Prefix:            config.Organizer.Prefix,
		Extension:         config.Organizer.Extension,
		PlaylistExtension: config.Organizer.PlaylistExtension,
		Logger:            r.logger,
	})
}

// SetLogger replaces the logger used by the runner and its organizer.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.organizer.SetLogger(l)
}

// Before loads the configuration file and applies global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err != nil {
		if cmd.IsSet("config") {
			r.logger.Warn("config file not found, using defaults", "path", configPath)
		}
		return ctx, nil
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return ctx, err
	}
	r.logger.Debug("loaded config", "path", configPath)
	r.configure(config)
	return ctx, nil
}

// After releases the journal database, if one was opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	r.organizer.SetJournal(nil)
	err := r.db.Close()
	r.db = nil
	return err
}

// openJournal opens the SQLite journal, applies migrations and attaches it to the organizer.
func (r *Runner) openJournal() (*repositories.RunRepository, error) {
	path, err := shared.ExpandHome(r.config.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrJournalUnavailable, err)
	}

	if r.db == nil {
		db, err := shared.NewDatabase(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrJournalUnavailable, err)
		}
		shared.ConfigureDatabase(db, r.config.Journal.MaxOpenConns, r.config.Journal.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrJournalUnavailable, err)
		}
		r.db = db
		r.logger.Debug("opened journal", "path", path)
	}

	repo := repositories.NewRunRepository(r.db)
	r.organizer.SetJournal(repositories.NewJournalAdapter(repo))
	return repo, nil
}

// attachJournal opens the journal when runs should be recorded.
//
// A journal requested with --journal must open; one enabled only in the config file is
// best effort, and the run continues unrecorded when it cannot be opened.
func (r *Runner) attachJournal(cmd *cli.Command) error {
	if cmd.Bool("journal") {
		_, err := r.openJournal()
		return err
	}
	if !r.config.Journal.Enabled {
		return nil
	}
	if _, err := r.openJournal(); err != nil {
		r.logger.Warn("journal unavailable, run will not be recorded", "path", r.config.Journal.Path, "error", err)
	}
	return nil
}

// pause waits for the user to press Enter.
func (r *Runner) pause() {
	if err := r.writePlain("\nPress Enter to exit..."); err != nil {
		r.logger.Debug("failed to write prompt", "error", err)
	}
	if _, err := bufio.NewReader(r.input).ReadString('\n'); err != nil && err != io.EOF {
		r.logger.Debug("failed to read from input", "error", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writePlainHeader frames lines between two rules and returns the first write error.
func (r *Runner) writePlainHeader(lines ...string) error {
	rule := strings.Repeat("=", 70)
	if err := r.writePlain("%s\n", rule); err != nil {
		return err
	}
	for _, line := range lines {
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return r.writePlain("%s\n", rule)
}
