package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ConflictError reports a clock-in refused by the server because a session
// is already open. OpenedAt carries the existing clock-in instant when the
// server included one.
type ConflictError struct {
	Message  string
	OpenedAt time.Time
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "a clock-in session is already open"
}

// ClockService is the remote side the coordinator drives.
type ClockService interface {
	// ClockIn opens a session for the authenticated user and returns the
	// server-reported clock-in instant (zero if the server omitted it).
	ClockIn(ctx context.Context) (time.Time, error)
	// ClockOut closes the authenticated user's open session.
	ClockOut(ctx context.Context) error
	// TodayClockRecords fetches today's raw clock records for everyone.
	TodayClockRecords(ctx context.Context) ([]RecordRow, error)
}

// Outcome classifies the result of a toggle.
type Outcome int

const (
	OutcomeClockedIn Outcome = iota
	OutcomeClockedOut
	OutcomeAlreadyOpen // soft success: server reported an open session
	OutcomeNotAllowed  // toggling someone else's clock
	OutcomeFailed
)

// ToggleResult is what a toggle produced: the outcome, a user-facing
// message, the instant to report, and the replacement board when one was
// computed (the optimistic patch, then the resynced state when the refetch
// succeeded).
type ToggleResult struct {
	Outcome Outcome
	Message string
	At      time.Time
	Board   []User // nil when local state must not change
	Synced  bool   // Board came from an authoritative refetch
	SyncErr error  // refetch failure after an otherwise successful action
}

// Coordinator is the sole transition function of the per-user clock state
// machine (ClockedOut -> ClockedIn -> ClockedOut).
type Coordinator struct {
	svc    ClockService
	selfID string
	now    func() time.Time
}

// NewCoordinator creates a coordinator acting on behalf of the
// authenticated user selfID.
func NewCoordinator(svc ClockService, selfID string) *Coordinator {
	return &Coordinator{svc: svc, selfID: selfID, now: time.Now}
}

// Refresh fetches today's records and returns the normalized board.
func (c *Coordinator) Refresh(ctx context.Context) ([]User, error) {
	rows, err := c.svc.TodayClockRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clock records: %w", err)
	}
	return Normalize(rows), nil
}

// Toggle flips the clock state of targetID. Only the authenticated user's
// own state may be toggled; any other target yields OutcomeNotAllowed with
// zero network calls.
func (c *Coordinator) Toggle(ctx context.Context, board []User, targetID string) ToggleResult {
	if targetID != c.selfID {
		return ToggleResult{
			Outcome: OutcomeNotAllowed,
			Message: "you can only change your own clock status",
		}
	}

	idx := FindUser(board, targetID)
	if idx == -1 {
		return ToggleResult{
			Outcome: OutcomeFailed,
			Message: "user is not on today's board",
		}
	}

	if board[idx].IsClockedIn {
		return c.clockOut(ctx, board, idx)
	}
	return c.clockIn(ctx, board, idx)
}

func (c *Coordinator) clockOut(ctx context.Context, board []User, idx int) ToggleResult {
	if err := c.svc.ClockOut(ctx); err != nil {
		return ToggleResult{Outcome: OutcomeFailed, Message: err.Error()}
	}

	now := c.now()
	patched := patchClockOut(board, idx, now)
	res := ToggleResult{
		Outcome: OutcomeClockedOut,
		Message: fmt.Sprintf("%s has clocked out", board[idx].DisplayName()),
		At:      now,
		Board:   patched,
	}
	c.resync(ctx, &res)
	return res
}

func (c *Coordinator) clockIn(ctx context.Context, board []User, idx int) ToggleResult {
	at, err := c.svc.ClockIn(ctx)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			// A session is already open: recoverable, resync to pick it up.
			res := ToggleResult{
				Outcome: OutcomeAlreadyOpen,
				Message: conflictMessage(conflict),
				At:      conflict.OpenedAt,
			}
			c.resync(ctx, &res)
			return res
		}
		return ToggleResult{Outcome: OutcomeFailed, Message: err.Error()}
	}

	if at.IsZero() {
		at = c.now()
	}
	res := ToggleResult{
		Outcome: OutcomeClockedIn,
		Message: fmt.Sprintf("%s has clocked in", board[idx].DisplayName()),
		At:      at,
	}
	c.resync(ctx, &res)
	return res
}

// resync replaces the result board with the authoritative server state.
// The optimistic board (if any) survives when the refetch fails.
func (c *Coordinator) resync(ctx context.Context, res *ToggleResult) {
	fresh, err := c.Refresh(ctx)
	if err != nil {
		res.SyncErr = err
		return
	}
	res.Board = fresh
	res.Synced = true
}

// patchClockOut returns a copy of the board with the target user's last
// open entry closed at the given instant and the flag flipped.
func patchClockOut(board []User, idx int, at time.Time) []User {
	patched := make([]User, len(board))
	copy(patched, board)

	user := patched[idx]
	entries := make([]TimeEntry, len(user.TimeEntries))
	copy(entries, user.TimeEntries)
	if open := LastOpen(entries); open != -1 {
		end := at
		entries[open].ClockOut = &end
	}
	user.TimeEntries = entries
	user.IsClockedIn = false
	patched[idx] = user

	return patched
}

func conflictMessage(conflict *ConflictError) string {
	if conflict.OpenedAt.IsZero() {
		return "a clock-in session is already open"
	}
	return fmt.Sprintf("a clock-in session is already open since %s",
		conflict.OpenedAt.Local().Format("15:04"))
}
