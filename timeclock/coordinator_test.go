package timeclock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClockService records calls and plays back scripted results.
type fakeClockService struct {
	clockInAt     time.Time
	clockInErr    error
	clockOutErr   error
	recordRows    []RecordRow
	recordsErr    error
	clockInCalls  int
	clockOutCalls int
	fetchCalls    int
}

func (f *fakeClockService) ClockIn(ctx context.Context) (time.Time, error) {
	f.clockInCalls++
	return f.clockInAt, f.clockInErr
}

func (f *fakeClockService) ClockOut(ctx context.Context) error {
	f.clockOutCalls++
	return f.clockOutErr
}

func (f *fakeClockService) TodayClockRecords(ctx context.Context) ([]RecordRow, error) {
	f.fetchCalls++
	return f.recordRows, f.recordsErr
}

func boardWithOpenSession(id string) []User {
	return []User{
		{
			ID:          id,
			Username:    "jho",
			FirstName:   "Jason",
			LastName:    "Ho",
			IsClockedIn: true,
			TimeEntries: []TimeEntry{
				{ClockIn: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
			},
		},
	}
}

func TestToggleOtherUserIsNotAllowed(t *testing.T) {
	svc := &fakeClockService{}
	coord := NewCoordinator(svc, "selfId")

	res := coord.Toggle(context.Background(), boardWithOpenSession("otherUserId"), "otherUserId")

	assert.Equal(t, OutcomeNotAllowed, res.Outcome)
	assert.Nil(t, res.Board)
	assert.Zero(t, svc.clockInCalls)
	assert.Zero(t, svc.clockOutCalls)
	assert.Zero(t, svc.fetchCalls)
}

func TestToggleUnknownTargetFailsWithoutNetwork(t *testing.T) {
	svc := &fakeClockService{}
	coord := NewCoordinator(svc, "selfId")

	res := coord.Toggle(context.Background(), nil, "selfId")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Zero(t, svc.clockInCalls)
	assert.Zero(t, svc.fetchCalls)
}

func TestToggleClockOutAppliesOptimisticPatch(t *testing.T) {
	// The resync fails so the returned board is the optimistic patch.
	svc := &fakeClockService{recordsErr: errors.New("network down")}
	coord := NewCoordinator(svc, "1")
	t1 := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	coord.now = func() time.Time { return t1 }

	board := boardWithOpenSession("1")
	res := coord.Toggle(context.Background(), board, "1")

	assert.Equal(t, OutcomeClockedOut, res.Outcome)
	assert.Equal(t, 1, svc.clockOutCalls)
	require.Len(t, res.Board, 1)
	assert.False(t, res.Board[0].IsClockedIn)
	require.Len(t, res.Board[0].TimeEntries, 1)
	require.NotNil(t, res.Board[0].TimeEntries[0].ClockOut)
	assert.Equal(t, t1, *res.Board[0].TimeEntries[0].ClockOut)
	assert.False(t, res.Synced)
	assert.Error(t, res.SyncErr)

	// Input board is untouched: replacement, not in-place mutation.
	assert.True(t, board[0].IsClockedIn)
	assert.Nil(t, board[0].TimeEntries[0].ClockOut)
}

func TestToggleClockOutResyncReplacesBoard(t *testing.T) {
	svc := &fakeClockService{
		recordRows: []RecordRow{
			{
				User: RowUser{ID: "1", Username: "jho", FirstName: "Jason", LastName: "Ho"},
				Records: []RawRecord{
					{ClockInTime: "2024-01-01T08:00:00Z", ClockOutTime: "2024-01-01T17:00:00Z"},
				},
			},
		},
	}
	coord := NewCoordinator(svc, "1")

	res := coord.Toggle(context.Background(), boardWithOpenSession("1"), "1")

	assert.Equal(t, OutcomeClockedOut, res.Outcome)
	assert.True(t, res.Synced)
	assert.NoError(t, res.SyncErr)
	assert.Equal(t, 1, svc.fetchCalls)
	require.Len(t, res.Board, 1)
	assert.False(t, res.Board[0].IsClockedIn)
}

func TestToggleClockOutFailureLeavesStateAlone(t *testing.T) {
	svc := &fakeClockService{clockOutErr: errors.New("server says no")}
	coord := NewCoordinator(svc, "1")

	res := coord.Toggle(context.Background(), boardWithOpenSession("1"), "1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "server says no", res.Message)
	assert.Nil(t, res.Board)
	assert.Zero(t, svc.fetchCalls)
}

func TestToggleClockInUsesServerInstant(t *testing.T) {
	serverAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := &fakeClockService{clockInAt: serverAt}
	coord := NewCoordinator(svc, "1")

	board := []User{{ID: "1", Username: "jho", FirstName: "Jason"}}
	res := coord.Toggle(context.Background(), board, "1")

	assert.Equal(t, OutcomeClockedIn, res.Outcome)
	assert.Equal(t, serverAt, res.At)
	assert.Equal(t, 1, svc.clockInCalls)
	assert.Equal(t, 1, svc.fetchCalls)
	assert.True(t, res.Synced)
}

func TestToggleClockInFallsBackToLocalInstant(t *testing.T) {
	svc := &fakeClockService{}
	coord := NewCoordinator(svc, "1")
	local := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	coord.now = func() time.Time { return local }

	board := []User{{ID: "1", Username: "jho"}}
	res := coord.Toggle(context.Background(), board, "1")

	assert.Equal(t, OutcomeClockedIn, res.Outcome)
	assert.Equal(t, local, res.At)
}

func TestToggleClockInConflictStillResyncs(t *testing.T) {
	openedAt := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc := &fakeClockService{
		clockInErr: &ConflictError{Message: "already open", OpenedAt: openedAt},
	}
	coord := NewCoordinator(svc, "1")

	board := []User{{ID: "1", Username: "jho"}}
	res := coord.Toggle(context.Background(), board, "1")

	assert.Equal(t, OutcomeAlreadyOpen, res.Outcome)
	assert.Equal(t, openedAt, res.At)
	assert.Contains(t, res.Message, "already open")
	assert.Equal(t, 1, svc.fetchCalls)
	assert.True(t, res.Synced)
}

func TestToggleClockInPlainFailureSkipsResync(t *testing.T) {
	svc := &fakeClockService{clockInErr: errors.New("boom")}
	coord := NewCoordinator(svc, "1")

	board := []User{{ID: "1", Username: "jho"}}
	res := coord.Toggle(context.Background(), board, "1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "boom", res.Message)
	assert.Nil(t, res.Board)
	assert.Zero(t, svc.fetchCalls)
}

func TestRefreshNormalizes(t *testing.T) {
	svc := &fakeClockService{
		recordRows: []RecordRow{
			{
				User:    RowUser{ID: "1", Username: "jho"},
				Records: []RawRecord{{ClockInTime: "2024-01-01T08:00:00Z"}},
			},
		},
	}
	coord := NewCoordinator(svc, "1")

	board, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.True(t, board[0].IsClockedIn)
}
