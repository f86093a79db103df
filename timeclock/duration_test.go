package timeclock

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{125 * time.Second, "2m 5s"},
		{3*time.Hour + 10*time.Minute, "3h 10m"},
		{0, "0s"},
		{59 * time.Second, "59s"},
		{time.Minute, "1m 0s"},
		{time.Hour, "1h 0m"},
		{time.Hour + 59*time.Second, "1h 0m"},
		{-5 * time.Second, "0s"},
	}

	for _, c := range cases {
		if got := FormatElapsed(c.d); got != c.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestFormatSession(t *testing.T) {
	in := time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC)
	out := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)

	open := TimeEntry{ClockIn: in}
	if got := FormatSession(open, time.UTC); got != "08:05 → ..." {
		t.Errorf("open session rendered as %q", got)
	}

	closed := TimeEntry{ClockIn: in, ClockOut: &out}
	if got := FormatSession(closed, time.UTC); got != "08:05 → 12:30" {
		t.Errorf("closed session rendered as %q", got)
	}
}

func TestEntryElapsed(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	out := time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC)

	closed := TimeEntry{
		ClockIn:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		ClockOut: &out,
	}
	if got := closed.Elapsed(now); got != 90*time.Minute {
		t.Errorf("expected 90m for closed entry, got %v", got)
	}

	open := TimeEntry{ClockIn: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	if got := open.Elapsed(now); got != 2*time.Hour {
		t.Errorf("expected 2h for open entry, got %v", got)
	}
}
