package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run 'listbackup auth login' first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logFile, err := shared.RedirectToFile(r.logger, cmd.String("log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer func() {
		r.logger.SetOutput(os.Stderr)
		logFile.Close()
	}()

	model := ui.NewModel(ctx, r.dashboard, r.api.Jobs, r.redirect, tasks.OverviewOpts{
		IncludeHealth: cmd.Bool("health"),
		RecentRuns:    cmd.Int("runs"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	r.redirect.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if r.redirect.Expired() {
		r.logger.Warn("session expired; run 'listbackup auth login'")
	}
	return nil
}
