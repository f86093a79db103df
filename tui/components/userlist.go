package components

import (
	"github.com/wisdomfoli/clockin-status-board/api"
)

// RenderDirectoryRow renders one directory entry. The selected row is
// highlighted; the authenticated user is tagged.
func RenderDirectoryRow(user api.DirectoryUser, selected, isSelf bool, width int, st Styles) string {
	cursor := "  "
	if selected {
		cursor = st.Accent.Render("> ")
	}

	line := cursor + "[" + Initials(user.FirstName, user.LastName, user.Username) + "] " +
		user.DisplayName()
	if isSelf {
		line += " " + st.Accent.Render("(you)")
	}
	if !user.IsActive && user.Username != "" {
		line += " " + st.Inactive.Render("(inactive)")
	}

	if selected {
		return st.Active.Render(line)
	}
	return line
}
