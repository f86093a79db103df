package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisdomfoli/clockin-status-board/timeclock"
	"github.com/wisdomfoli/clockin-status-board/tui/components"
)

const minCardWidth = 36

func (m Model) View() string {
	switch m.mode {
	case modeLogin:
		return m.viewLogin()
	case modeBoard:
		return m.viewBoard()
	case modeDirectory:
		return m.viewDirectory(false)
	case modeDirLogin:
		return m.viewDirectory(true)
	}
	return ""
}

// statusLine renders the transient status message, or an empty string once
// it has expired.
func (m Model) statusLine() string {
	if m.statusMsg == "" || time.Now().After(m.statusExpiry) {
		return ""
	}
	if m.statusError {
		return m.styles.errorStyle.Render(m.statusMsg)
	}
	return m.styles.statusStyle.Render(m.statusMsg)
}

func (m Model) viewLogin() string {
	fields := []string{
		"Username: " + m.username.View(),
		"Password: " + m.password.View(),
	}

	lines := []string{
		m.styles.titleStyle.Render("Clock-in Status Board"),
		"",
	}
	lines = append(lines, fields...)
	lines = append(lines, "",
		m.styles.inactiveStyle.Render("enter sign in · tab next field · ctrl+r show password · ctrl+c quit"))
	if status := m.statusLine(); status != "" {
		lines = append(lines, "", status)
	}

	card := m.styles.boxStyle.Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}

func (m Model) viewBoard() string {
	title := m.styles.titleStyle.Render("Clock-in Status Board")
	count := m.styles.statusStyle.Render(
		fmt.Sprintf("%d of %d clocked in", timeclock.ClockedInCount(m.board), len(m.board)))
	header := title + "  " + count

	cards := make([]string, 0, len(m.board))
	cardWidth := m.cardWidth()
	for _, user := range m.board {
		isSelf := user.ID == m.sess.UserID
		cards = append(cards, components.RenderUserCard(
			user, isSelf, isSelf && m.busy, m.now, cardWidth, m.styles.cardStyles(),
			timeclock.FormatElapsed, timeclock.FormatSession))
	}

	var body string
	switch {
	case len(cards) == 0:
		body = m.styles.inactiveStyle.Render("No clock records yet today.")
	case m.columns() == 1:
		body = lipgloss.JoinVertical(lipgloss.Left, cards...)
	default:
		rows := make([]string, 0, (len(cards)+1)/2)
		for i := 0; i < len(cards); i += 2 {
			if i+1 < len(cards) {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1]))
			} else {
				rows = append(rows, cards[i])
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	sections := []string{header, "", body}
	if status := m.statusLine(); status != "" {
		sections = append(sections, "", status)
	}
	sections = append(sections, "", m.styles.footerStyle.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// columns reports how many card columns fit in the current width.
func (m Model) columns() int {
	if m.width >= 2*minCardWidth+3 {
		return 2
	}
	return 1
}

func (m Model) cardWidth() int {
	if m.columns() == 2 {
		return (m.width - 3) / 2
	}
	if m.width > 0 {
		return m.width - 2
	}
	return minCardWidth
}

func (m Model) viewDirectory(withModal bool) string {
	title := m.styles.titleStyle.Render("User directory")

	rows := make([]string, 0, len(m.directory)+4)
	rows = append(rows, title, "")
	if len(m.directory) == 0 {
		rows = append(rows, m.styles.inactiveStyle.Render("No users loaded."))
	}
	for i, user := range m.directory {
		rows = append(rows, components.RenderDirectoryRow(
			user, i == m.dirCursor, string(user.ID) == m.sess.UserID, m.width, m.styles.cardStyles()))
	}

	if status := m.statusLine(); status != "" {
		rows = append(rows, "", status)
	}
	rows = append(rows, "",
		m.styles.footerStyle.Render("↑/↓ move · enter sign in · esc board · r refresh · q quit"))
	main := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if !withModal {
		return main
	}

	// The modal replaces the screen; the list behind it is dimmed to a
	// plain rendering rather than composited.
	selected := m.directory[m.dirCursor]
	fields := []string{
		"Username: " + m.username.View(),
		"Password: " + m.password.View(),
	}
	return components.RenderLoginModal(
		"Sign in as "+selected.DisplayName(),
		fields,
		"enter sign in · ctrl+k sign in + clock in · esc cancel",
		max(m.width, minCardWidth), max(m.height, 12),
		m.styles.cardStyles())
}
