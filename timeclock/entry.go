package timeclock

import "time"

// TimeEntry represents one clock session.
type TimeEntry struct {
	ClockIn  time.Time
	ClockOut *time.Time // nil while the session is open
}

// Open reports whether the session has no end instant yet.
func (e TimeEntry) Open() bool {
	return e.ClockOut == nil
}

// Elapsed returns the duration of the session.
// If ClockOut is nil, uses the provided now time as the implicit end.
func (e TimeEntry) Elapsed(now time.Time) time.Duration {
	end := now
	if e.ClockOut != nil {
		end = *e.ClockOut
	}
	return end.Sub(e.ClockIn)
}

// User is one person on the board with their derived clock state.
// Rebuilt from the server response on every fetch.
type User struct {
	ID          string
	Username    string
	FirstName   string
	LastName    string
	IsClockedIn bool
	TimeEntries []TimeEntry
}

// DisplayName returns "First Last", trimming a missing last name.
func (u User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// LastOpen returns the index of the chronologically last open entry.
// Returns -1 if no entry is open.
func LastOpen(entries []TimeEntry) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ClockOut == nil {
			return i
		}
	}
	return -1
}

// FindUser returns the index of the user with the given id, or -1.
func FindUser(board []User, id string) int {
	for i := range board {
		if board[i].ID == id {
			return i
		}
	}
	return -1
}

// ClockedInCount counts the users currently on the clock.
func ClockedInCount(board []User) int {
	count := 0
	for _, u := range board {
		if u.IsClockedIn {
			count++
		}
	}
	return count
}
