package timeclock

import (
	"fmt"
	"time"
)

// FormatElapsed formats an elapsed duration for the session display:
// "3h 10m" from one hour up, "2m 5s" from one minute up, "45s" below that.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatSession renders a session as "HH:MM → HH:MM", with "..." while the
// session is still open. Times are shown in the given location.
func FormatSession(e TimeEntry, loc *time.Location) string {
	start := e.ClockIn.In(loc).Format("15:04")
	if e.ClockOut == nil {
		return start + " → ..."
	}
	return start + " → " + e.ClockOut.In(loc).Format("15:04")
}
