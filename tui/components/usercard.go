package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

// Initials builds the avatar initials from the name parts, falling back to
// the first rune of the username.
func Initials(firstName, lastName, username string) string {
	var b strings.Builder
	if firstName != "" {
		b.WriteString(strings.ToUpper(firstName[:1]))
	}
	if lastName != "" {
		b.WriteString(strings.ToUpper(lastName[:1]))
	}
	if b.Len() == 0 && username != "" {
		b.WriteString(strings.ToUpper(username[:1]))
	}
	return b.String()
}

// RenderUserCard renders one user of the board: initials, name, clock
// state and today's sessions. The open session shows a live elapsed value
// computed against now.
func RenderUserCard(user timeclock.User, isSelf, busy bool, now time.Time, width int, st Styles,
	formatElapsed func(time.Duration) string,
	formatSession func(timeclock.TimeEntry, *time.Location) string) string {

	name := user.DisplayName()
	if isSelf {
		name += " " + st.Accent.Render("(you)")
	}

	state := st.Inactive.Render("Hors service")
	if user.IsClockedIn {
		state = st.Active.Render("En service")
	}

	header := st.Accent.Render("["+Initials(user.FirstName, user.LastName, user.Username)+"]") +
		" " + name
	lines := []string{header, state}

	if len(user.TimeEntries) > 0 {
		lines = append(lines, st.Inactive.Render("Sessions du jour :"))
		for _, entry := range user.TimeEntries {
			line := "  " + formatSession(entry, now.Location()) +
				"  " + formatElapsed(entry.Elapsed(now))
			if entry.Open() {
				line = st.Active.Render(line)
			}
			lines = append(lines, line)
		}
	}

	if isSelf {
		action := "[c] clock in"
		if user.IsClockedIn {
			action = "[c] clock out"
		}
		if busy {
			action = "working..."
		}
		lines = append(lines, st.Accent.Render(action))
	}

	box := st.Box
	if user.IsClockedIn {
		box = st.BoxOpen
	}
	return box.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
