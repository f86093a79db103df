package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wisdomfoli/clockin-status-board/config"
	"github.com/wisdomfoli/clockin-status-board/tui/components"
)

// styleMap holds all the styles used in the UI.
type styleMap struct {
	titleStyle    lipgloss.Style
	activeStyle   lipgloss.Style
	inactiveStyle lipgloss.Style
	accentStyle   lipgloss.Style
	errorStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	boxStyle      lipgloss.Style
	activeBox     lipgloss.Style
	footerStyle   lipgloss.Style
	dimStyle      lipgloss.Style
}

// newStyleMapFromConfig creates a styleMap from configuration.
func newStyleMapFromConfig(cfg *config.Config) styleMap {
	colors := cfg.Colors

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Inactive)).
		Padding(0, 1)

	return styleMap{
		titleStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Accent)),
		activeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Active)),
		inactiveStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Inactive)),
		accentStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Accent)),
		errorStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Error)),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Status)).Italic(true),
		boxStyle:      box,
		activeBox:     box.BorderForeground(lipgloss.Color(colors.Active)),
		footerStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Status)),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
	}
}

// cardStyles exposes the subset the components need.
func (s styleMap) cardStyles() components.Styles {
	return components.Styles{
		Box:      s.boxStyle,
		BoxOpen:  s.activeBox,
		Active:   s.activeStyle,
		Inactive: s.inactiveStyle,
		Accent:   s.accentStyle,
	}
}
