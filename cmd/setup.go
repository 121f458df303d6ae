package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/chdm3u/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("✓ Configuration written to %s\n", configPath)
}

// SetupDatabase initializes the journal database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Journal.Path)

	if _, err := r.openJournal(); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Journal.Path)
	if err := r.writePlain("✓ Journal ready at %s\n", r.config.Journal.Path); err != nil {
		return err
	}
	return r.writePlain("Record runs with --journal or set journal.enabled = true\n")
}
