package components

import "github.com/charmbracelet/lipgloss"

// Styles is the style set shared by the board and directory renderers.
type Styles struct {
	Box      lipgloss.Style // closed/idle card border
	BoxOpen  lipgloss.Style // card border while clocked in
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Accent   lipgloss.Style
}
