package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisdomfoli/clockin-status-board/api"
	"github.com/wisdomfoli/clockin-status-board/config"
	"github.com/wisdomfoli/clockin-status-board/session"
	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

func testModel(t *testing.T, sess session.Session) Model {
	t.Helper()
	store := session.NewStore(t.TempDir() + "/session.toml")
	cfg := config.DefaultConfig()
	client := api.NewClient("http://localhost:1", time.Second, store)
	return NewModel(cfg, store, client, sess)
}

func openBoard() []timeclock.User {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []timeclock.User{
		{
			ID:          "7",
			Username:    "ada",
			IsClockedIn: true,
			TimeEntries: []timeclock.TimeEntry{{ClockIn: start}},
		},
	}
}

func TestNewModelStartsOnLoginWithoutSession(t *testing.T) {
	m := testModel(t, session.Session{})
	assert.Equal(t, modeLogin, m.mode)
}

func TestNewModelStartsOnBoardWithSession(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7", Username: "ada"})
	assert.Equal(t, modeBoard, m.mode)
}

func TestShouldTickOnlyOnBoardWithOpenSession(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeBoard

	assert.False(t, m.shouldTick(), "empty board must not tick")

	m.board = openBoard()
	assert.True(t, m.shouldTick())

	end := m.board[0].TimeEntries[0].ClockIn.Add(time.Hour)
	m.board[0].TimeEntries[0].ClockOut = &end
	m.board[0].IsClockedIn = false
	assert.False(t, m.shouldTick(), "closed sessions need no ticking")

	m.board = openBoard()
	m.mode = modeDirectory
	assert.False(t, m.shouldTick(), "only the board view ticks")
}

func TestStaleTickIsIgnored(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeBoard
	m.board = openBoard()
	m.tickGen = 3
	before := m.now

	updated, cmd := m.Update(tickMsg{gen: 2})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, before, m.now, "stale tick must not touch the clock")
}

func TestRestartTickBumpsGeneration(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeBoard
	m.board = openBoard()

	gen := m.tickGen
	cmd := m.restartTick()
	assert.Equal(t, gen+1, m.tickGen)
	assert.NotNil(t, cmd)

	m.board = nil
	gen = m.tickGen
	cmd = m.restartTick()
	assert.Equal(t, gen+1, m.tickGen, "generation advances even when no tick is scheduled")
	assert.Nil(t, cmd)
}

func TestHandleToggleAdoptsBoardAndClearsBusy(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeBoard
	m.busy = true

	res := timeclock.ToggleResult{
		Outcome: timeclock.OutcomeClockedIn,
		Message: "Clocked in",
		Board:   openBoard(),
		Synced:  true,
	}
	updated, _ := m.Update(toggleMsg{res: res})
	m = updated.(Model)

	assert.False(t, m.busy)
	require.Len(t, m.board, 1)
	assert.True(t, m.board[0].IsClockedIn)
	assert.Equal(t, "Clocked in", m.statusMsg)
	assert.False(t, m.statusError)
}

func TestHandleToggleFailureKeepsBoard(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeBoard
	m.board = openBoard()
	m.busy = true

	res := timeclock.ToggleResult{
		Outcome: timeclock.OutcomeFailed,
		Message: "clock-out failed",
	}
	updated, _ := m.Update(toggleMsg{res: res})
	m = updated.(Model)

	assert.False(t, m.busy)
	require.Len(t, m.board, 1, "failure must not drop the board")
	assert.True(t, m.statusError)
}

func TestToggleKeySetsBusyAndIgnoresRepeats(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7", Username: "ada"})
	m.mode = modeBoard
	m.board = openBoard()

	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}
	updated, cmd := m.Update(press)
	m = updated.(Model)

	assert.True(t, m.busy)
	assert.NotNil(t, cmd)

	_, cmd = m.Update(press)
	assert.Nil(t, cmd, "repeated toggle while busy must be ignored")
}

func TestExpiredSessionFallsBackToLogin(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7", Username: "ada"})
	m.mode = modeBoard
	m.board = openBoard()

	updated, _ := m.Update(boardMsg{err: api.ErrUnauthenticated})
	m = updated.(Model)

	assert.Equal(t, modeLogin, m.mode)
	assert.Empty(t, m.sess.Token)
	assert.Nil(t, m.board)
	assert.True(t, m.statusError)
}

func TestDirectoryErrorKeepsExistingList(t *testing.T) {
	m := testModel(t, session.Session{Token: "tok", UserID: "7"})
	m.mode = modeDirectory
	m.directory = []api.DirectoryUser{{ID: "7", Username: "ada"}}

	updated, _ := m.Update(directoryMsg{err: errors.New("boom")})
	m = updated.(Model)

	require.Len(t, m.directory, 1)
	assert.True(t, m.statusError)
}

func TestSortSelfFirst(t *testing.T) {
	users := []api.DirectoryUser{
		{ID: "1", Username: "ann"},
		{ID: "2", Username: "bob"},
		{ID: "3", Username: "cid"},
	}

	sorted := sortSelfFirst(users, "2")
	require.Len(t, sorted, 3)
	assert.Equal(t, "bob", sorted[0].Username)
	assert.Equal(t, "ann", sorted[1].Username)
	assert.Equal(t, "cid", sorted[2].Username)

	// Unknown or empty self leaves the order untouched.
	assert.Equal(t, users, sortSelfFirst(users, "9"))
	assert.Equal(t, users, sortSelfFirst(users, ""))

	// Self already first is returned as-is.
	assert.Equal(t, "ann", sortSelfFirst(users, "1")[0].Username)
}
