// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command. Global flags are read by [Runner.Before] before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songdash",
		Usage:   "Explore a songs dataset (2000-2020) in the browser, the terminal or as exports",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the songs CSV (overrides dataset.path)",
			},
		},
		Before:   r.Before,
		Writer:   r.output,
		Commands: r.register(),
	}
}

// filterFlags are the explorer filters shared by view and export.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "genre",
			Aliases: []string{"g"},
			Usage:   "Genre to include (repeatable; defaults to all genres)",
		},
		&cli.StringFlag{
			Name:  "years",
			Usage: "Release year range as LOW:HIGH (either side may be omitted)",
		},
		&cli.StringFlag{
			Name:  "popularity",
			Usage: "Popularity range as LOW:HIGH (defaults to the configured selection)",
		},
	}
}

// serveCommand runs the web dashboard.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the dashboard in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal dashboard",
		Action:  r.TUI,
	}
}

// viewCommand prints a single page.
func viewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Print one page: overview, genres, features or explore",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:  "page",
				Value: "overview",
			},
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		}, filterFlags()...),
		Action: r.View,
	}
}

// exportCommand writes the report to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:        "export",
		Usage:       "Export the report (csv and txt hold the explorer rows)",
		Description: "csv and txt contain only the explorer rows. md, json, yaml and html contain the\n" +
			"full report, which includes the Features scatter sample: those formats fail when the\n" +
			"dataset has fewer songs than dataset.sample_size (lower it in the config file).",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, md, txt, json, yaml or html",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (- for stdout)",
			},
		}, filterFlags()...),
		Action: r.Export,
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file",
						Value: "config.toml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as TOML",
				Action: r.ConfigShow,
			},
		},
	}
}
