package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdash/internal/server"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.ConfigureLogger(fileLogger, r.config.Logging)
	r.SetLogger(fileLogger)

	audio := server.NewAudioHandler(r.config.Audio).View()
	model := ui.NewModel(ctx, r.dashboard, audio.Warning)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
