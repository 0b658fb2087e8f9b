package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	loader     *songs.Loader
	dashboard  *dashboard.Dashboard
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
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

	r := &Runner{
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.setConfig(opts.Config)
	return r
}

// setConfig rebuilds the loader and dashboard for cfg.
func (r *Runner) setConfig(cfg *shared.Config) {
	r.config = cfg
	r.loader = songs.NewLoader(cfg.Dataset.Path, songs.LoadOptions{DateLayout: cfg.Dataset.DateLayout}, r.logger)
	r.dashboard = dashboard.New(r.loader, cfg, r.logger)
}

// SetLogger replaces the logger used by the runner and everything it built.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.setConfig(r.config)
}

// Before loads the configuration named by --config and applies the --data override.
//
// A missing default config file is fine; a missing file passed explicitly is not.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	cfg := r.config

	if _, err := os.Stat(path); err == nil {
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		cfg = loaded
		r.logger.Debug("loaded config", "path", path)
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: config file %s does not exist", shared.ErrInvalidConfig, path)
	}

	if data := cmd.String("data"); data != "" {
		cfg.Dataset.Path = data
	}

	r.configPath = path
	shared.ConfigureLogger(r.logger, cfg.Logging)
	r.setConfig(cfg)
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, tuiCommand, viewCommand, exportCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// criteria reads the explorer filter flags. It returns nil when none are set so callers use the defaults.
func (r *Runner) criteria(ctx context.Context, cmd *cli.Command) (*songs.Criteria, error) {
	if !cmd.IsSet("genre") && !cmd.IsSet("years") && !cmd.IsSet("popularity") {
		return nil, nil
	}

	controls, err := r.dashboard.Controls(ctx)
	if err != nil {
		return nil, err
	}

	c := controls.Defaults
	if cmd.IsSet("genre") {
		c.Genres = nil
		for _, g := range cmd.StringSlice("genre") {
			if g = strings.TrimSpace(g); g != "" {
				c.Genres = append(c.Genres, g)
			}
		}
	}
	if cmd.IsSet("years") {
		if c.Years, err = songs.ParseRange(cmd.String("years"), c.Years); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("popularity") {
		if c.Popularity, err = songs.ParseRange(cmd.String("popularity"), c.Popularity); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
