package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wisdomfoli/clockin-status-board/api"
	"github.com/wisdomfoli/clockin-status-board/config"
	"github.com/wisdomfoli/clockin-status-board/session"
)

// Launch loads config and session, wires the API client and runs the
// full-screen dashboard until the user quits.
func Launch() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := session.NewStore("")
	sess, err := store.Load()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second, store)

	program := tea.NewProgram(NewModel(cfg, store, client, sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run the dashboard: %w", err)
	}
	return nil
}
