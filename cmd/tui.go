package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/desertthunder/sofar/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
//
// When the user asks to log in from the dashboard, the browser flow runs and the TUI starts again.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := filepath.Join("tmp", "sofar-tui.log")
	if dir, err := r.config.SessionPath(); err == nil {
		logPath = filepath.Join(filepath.Dir(dir), "sofar-tui.log")
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	consoleLogger := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(consoleLogger)

	for {
		gate, err := r.sessionGate()
		if err != nil {
			return err
		}
		engine, err := r.engine()
		if err != nil {
			return err
		}

		model := ui.NewModel(ctx, gate, engine)
		p := tea.NewProgram(model, tea.WithContext(ctx))
		_, err = p.Run()
		model.Close()
		if err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}

		if !model.LoginRequested() {
			return nil
		}

		if _, err := r.login(ctx, loginTimeout, true); err != nil {
			return err
		}
	}
}
