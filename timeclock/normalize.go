package timeclock

import (
	"encoding/json"
	"sort"
	"time"
)

// UserID is an opaque user identifier. The server sends ids as either JSON
// numbers or strings; both decode to the string form.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// RecordRow is one row of the today-clocks response: a user together with
// their raw clock records for the day. A user may appear in several rows.
type RecordRow struct {
	User    RowUser     `json:"user"`
	Records []RawRecord `json:"clock_records"`
}

// RowUser identifies the user a row belongs to.
type RowUser struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RawRecord is a clock record as the server sends it, times as strings.
type RawRecord struct {
	ClockInTime  string `json:"clock_in_time"`
	ClockOutTime string `json:"clock_out_time"`
}

// instantFormats are tried in order when parsing record timestamps.
// Naive forms are taken as UTC.
var instantFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseInstant parses a server timestamp string. Returns false for empty
// or unparsable values.
func ParseInstant(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range instantFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize reshapes raw record rows into the per-user board state.
//
// Rows for the same user id are merged, records without a parsable
// clock_in_time are discarded, surviving records are sorted ascending by
// clock-in, and IsClockedIn is true iff the last record has no clock-out.
// Board order follows first appearance in the rows.
func Normalize(rows []RecordRow) []User {
	var board []User
	index := make(map[string]int)

	for _, row := range rows {
		id := string(row.User.ID)
		pos, seen := index[id]
		if !seen {
			firstName := row.User.FirstName
			if firstName == "" {
				firstName = row.User.Username
			}
			board = append(board, User{
				ID:        id,
				Username:  row.User.Username,
				FirstName: firstName,
				LastName:  row.User.LastName,
			})
			pos = len(board) - 1
			index[id] = pos
		}

		for _, rec := range row.Records {
			clockIn, ok := ParseInstant(rec.ClockInTime)
			if !ok {
				continue
			}
			entry := TimeEntry{ClockIn: clockIn}
			if out, ok := ParseInstant(rec.ClockOutTime); ok {
				entry.ClockOut = &out
			}
			board[pos].TimeEntries = append(board[pos].TimeEntries, entry)
		}
	}

	for i := range board {
		entries := board[i].TimeEntries
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].ClockIn.Before(entries[b].ClockIn)
		})
		board[i].IsClockedIn = len(entries) > 0 && entries[len(entries)-1].ClockOut == nil
	}

	return board
}
