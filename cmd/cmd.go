// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.1.0"

// -v is taken by --verbose.
func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// rootCommand organizes a directory by default and hosts every subcommand.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "chdm3u",
		Usage:     "Create m3u playlists for multi-disc CHD games",
		UsageText: "chdm3u [options] [DIR]",
		Version:   version,
		Flags:     globalFlags(),
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", UsageText: "Directory containing disc images"},
		},
		Before:   r.Before,
		After:    r.After,
		Action:   r.Organize,
		Commands: r.register(),
	}
}

// globalFlags are declared on the root command and inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "chdm3u.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Show banner, preview and confirm the run, and pause before exit",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Print planned renames and playlists without changing anything",
		},
		&cli.BoolFlag{
			Name:  "journal",
			Usage: "Record the run in the journal so it can be undone",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Summary format: text, json or markdown",
			Value: "text",
		},
	}
}

// organizeCommand groups disc images into playlists
func organizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "organize",
		Usage: "Rename multi-disc images and write one playlist per game",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", UsageText: "Directory containing disc images"},
		},
		Action: r.Organize,
	}
}

// watchCommand re-runs the organizer as disc images arrive
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Organize a directory, then again whenever new disc images appear",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a run (overrides watch.debounce)",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", UsageText: "Directory to watch"},
		},
		Action: r.Watch,
	}
}

// historyCommand lists journaled runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List journaled runs, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list (0 for all)",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Only list runs over this directory",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// undoCommand reverts a journaled run
func undoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "undo",
		Usage: "Rename the files of a journaled run back and remove its playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "run_id", UsageText: "Run to revert (default: latest)"},
		},
		Action: r.Undo,
	}
}

// setupCommand initializes configuration and the journal database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the journal database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration file to --config",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the journal database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		organizeCommand, watchCommand, historyCommand, undoCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}
