package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dyike/docqa/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	var screen string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen interface (default)",
		Long: `Open the full-screen interface.

Screens:
  home      product overview
  chat      documents, upload and chat
  status    backend health

Examples:
  docqa                      # opens on the home screen
  docqa tui --screen chat    # opens directly on Chat & Upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, screen)
		},
	}
	cmd.Flags().StringVar(&screen, "screen", "home", "Initial screen (home|chat|status)")
	return cmd
}

func parseScreen(s string) (tui.Screen, error) {
	switch s {
	case "", "home":
		return tui.ScreenLanding, nil
	case "chat", "app":
		return tui.ScreenWorkspace, nil
	case "status":
		return tui.ScreenStatus, nil
	}
	return 0, fmt.Errorf("unknown screen %q (want home|chat|status)", s)
}

func (a *app) runTUI(cmd *cobra.Command, name string) error {
	screen, err := parseScreen(name)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	model := tui.NewModel(ctx, a.client(), tui.Options{
		BaseURL:          a.cfg.API.BaseURL,
		Version:          a.info.Version,
		SidebarWidth:     a.cfg.TUI.SidebarWidth,
		StatusClearDelay: time.Duration(a.cfg.TUI.StatusClearSec) * time.Second,
		Screen:           screen,
		Logger:           a.logger,
	})

	a.logger.Info("tui: starting")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
