package components

import (
	"github.com/charmbracelet/lipgloss"
)

// RenderLoginModal renders the inline login dialog: a title, the rendered
// input fields and a hint line, boxed and centered in the given area.
func RenderLoginModal(title string, fields []string, hint string, width, height int, st Styles) string {
	lines := []string{st.Accent.Render(title), ""}
	lines = append(lines, fields...)
	lines = append(lines, "", st.Inactive.Render(hint))

	modal := st.Box.Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
