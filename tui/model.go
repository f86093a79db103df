package tui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wisdomfoli/clockin-status-board/api"
	"github.com/wisdomfoli/clockin-status-board/config"
	"github.com/wisdomfoli/clockin-status-board/session"
	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

type viewMode int

const (
	modeLogin viewMode = iota
	modeBoard
	modeDirectory
	modeDirLogin // login modal over the directory
)

// Messages delivered back into the event loop.

type tickMsg struct{ gen int }

type sessionMsg struct {
	sess session.Session
	info string
	err  error
}

type boardMsg struct {
	board []timeclock.User
	err   error
}

type toggleMsg struct {
	res timeclock.ToggleResult
}

type directoryMsg struct {
	users []api.DirectoryUser
	err   error
}

// Model is the Bubble Tea model for the whole client.
type Model struct {
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	sess   session.Session

	mode   viewMode
	keys   keyMap
	help   help.Model
	styles styleMap
	width  int
	height int

	username textinput.Model
	password textinput.Model

	board   []timeclock.User
	now     time.Time
	tickGen int
	busy    bool // a network action is in flight; toggle is disabled

	directory []api.DirectoryUser
	dirCursor int

	statusMsg    string
	statusError  bool
	statusExpiry time.Time
}

// NewModel builds the initial model. An authenticated session lands on the
// dashboard, otherwise on the login screen.
func NewModel(cfg *config.Config, store *session.Store, client *api.Client, sess session.Session) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	h := help.New()
	h.ShowAll = false

	mode := modeLogin
	if sess.Authenticated() {
		mode = modeBoard
	}

	return Model{
		cfg:      cfg,
		store:    store,
		client:   client,
		sess:     sess,
		mode:     mode,
		keys:     keys,
		help:     h,
		styles:   newStyleMapFromConfig(cfg),
		username: username,
		password: password,
		now:      time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.mode == modeBoard {
		return tea.Batch(m.loadBoardCmd(), textinput.Blink)
	}
	return textinput.Blink
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusError = false
	m.statusExpiry = time.Now().Add(5 * time.Second)
}

func (m *Model) setStatusError(msg string) {
	m.statusMsg = msg
	m.statusError = true
	m.statusExpiry = time.Now().Add(5 * time.Second)
}

func (m *Model) resetForm() {
	m.username.SetValue("")
	m.password.SetValue("")
	m.password.EchoMode = textinput.EchoPassword
	m.password.Blur()
	m.username.Focus()
}

// forceLogin drops back to the login screen after a logout or a forced
// session expiry. The tick generation bump cancels any pending tick.
func (m *Model) forceLogin(status string) {
	m.sess = session.Session{}
	m.board = nil
	m.mode = modeLogin
	m.tickGen++
	m.busy = false
	m.resetForm()
	if status != "" {
		m.setStatusError(status)
	}
}

func (m Model) coordinator() *timeclock.Coordinator {
	return timeclock.NewCoordinator(m.client, m.sess.UserID)
}

// shouldTick reports whether the per-second tick must keep running: only
// while the board is visible and someone has an open session.
func (m Model) shouldTick() bool {
	return m.mode == modeBoard && timeclock.ClockedInCount(m.board) > 0
}

// restartTick invalidates any pending tick and schedules a fresh one when
// still needed.
func (m *Model) restartTick() tea.Cmd {
	m.tickGen++
	if m.shouldTick() {
		return tickCmd(m.tickGen)
	}
	return nil
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Commands

func (m Model) loadBoardCmd() tea.Cmd {
	coord := m.coordinator()
	return func() tea.Msg {
		board, err := coord.Refresh(context.Background())
		return boardMsg{board: board, err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), username, password)
		return sessionMsg{sess: sess, err: err}
	}
}

// loginAndClockInCmd signs in and then clocks in, unless today's records
// already show an open session for the user.
func (m Model) loginAndClockInCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := client.Login(ctx, username, password)
		if err != nil {
			return sessionMsg{err: err}
		}

		if hasOpenSessionFor(ctx, client, sess.UserID) {
			return sessionMsg{sess: sess, info: "A clock-in session is already open."}
		}

		if _, err := client.ClockIn(ctx); err != nil {
			var conflict *timeclock.ConflictError
			if errors.As(err, &conflict) {
				return sessionMsg{sess: sess, info: "A clock-in session is already open."}
			}
			// Login succeeded; the clock-in failure is informational only.
			return sessionMsg{sess: sess, info: "Signed in, but clock-in failed: " + err.Error()}
		}
		return sessionMsg{sess: sess, info: "Signed in and clocked in."}
	}
}

// hasOpenSessionFor checks today's records for an open session belonging
// to the given user. Errors degrade to false: the clock-in attempt itself
// will surface any real problem.
func hasOpenSessionFor(ctx context.Context, client *api.Client, userID string) bool {
	rows, err := client.TodayClockRecords(ctx)
	if err != nil {
		return false
	}
	for _, user := range timeclock.Normalize(rows) {
		if user.ID == userID {
			return user.IsClockedIn
		}
	}
	return false
}

func (m Model) toggleCmd(board []timeclock.User, targetID string) tea.Cmd {
	coord := m.coordinator()
	return func() tea.Msg {
		return toggleMsg{res: coord.Toggle(context.Background(), board, targetID)}
	}
}

func (m Model) loadDirectoryCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.Users(context.Background())
		return directoryMsg{users: users, err: err}
	}
}

// Update

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen {
			// Stale tick from a torn-down view.
			return m, nil
		}
		m.now = time.Now()
		if m.shouldTick() {
			return m, tickCmd(m.tickGen)
		}
		return m, nil

	case boardMsg:
		return m.handleBoard(msg)

	case toggleMsg:
		return m.handleToggle(msg)

	case sessionMsg:
		return m.handleSession(msg)

	case directoryMsg:
		return m.handleDirectory(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleBoard(msg boardMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			m.forceLogin("Session expired, please sign in again.")
			return m, nil
		}
		m.setStatusError(msg.err.Error())
		return m, nil
	}
	m.board = msg.board
	m.now = time.Now()
	return m, m.restartTick()
}

func (m Model) handleToggle(msg toggleMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	res := msg.res

	if res.Board != nil {
		m.board = res.Board
		m.now = time.Now()
	}

	switch res.Outcome {
	case timeclock.OutcomeClockedIn, timeclock.OutcomeClockedOut:
		m.setStatus(res.Message)
	case timeclock.OutcomeAlreadyOpen:
		m.setStatus(res.Message)
	case timeclock.OutcomeNotAllowed, timeclock.OutcomeFailed:
		m.setStatusError(res.Message)
	}

	if res.SyncErr != nil {
		if errors.Is(res.SyncErr, api.ErrUnauthenticated) {
			m.forceLogin("Session expired, please sign in again.")
			return m, nil
		}
		m.setStatusError("Board refresh failed: " + res.SyncErr.Error())
	}
	return m, m.restartTick()
}

func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.setStatusError(msg.err.Error())
		return m, nil
	}

	m.sess = msg.sess
	m.mode = modeBoard
	m.resetForm()
	if msg.info != "" {
		m.setStatus(msg.info)
	} else {
		m.setStatus("Welcome " + msg.sess.Username)
	}
	return m, m.loadBoardCmd()
}

func (m Model) handleDirectory(msg directoryMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Console diagnostic only, plus a status line; the directory keeps
		// whatever it had.
		log.Printf("failed to load user directory: %v", msg.err)
		m.setStatusError("Could not load the user directory.")
		return m, nil
	}
	m.directory = sortSelfFirst(msg.users, m.sess.UserID)
	if m.dirCursor >= len(m.directory) {
		m.dirCursor = 0
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, whatever has focus.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeLogin:
		return m.updateLoginKeys(msg)
	case modeBoard:
		return m.updateBoardKeys(msg)
	case modeDirectory:
		return m.updateDirectoryKeys(msg)
	case modeDirLogin:
		return m.updateModalKeys(msg)
	}
	return m, nil
}

func (m Model) updateLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.swapFormFocus()
		return m, nil
	case key.Matches(msg, m.keys.RevealSecret):
		m.togglePasswordEcho()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin(false)
	}
	return m.updateFormInputs(msg)
}

func (m Model) updateBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadBoardCmd()

	case key.Matches(msg, m.keys.Toggle):
		if m.busy {
			return m, nil
		}
		m.busy = true
		board := m.board
		if timeclock.FindUser(board, m.sess.UserID) == -1 {
			// First clock-in of the day: not on the board yet.
			board = append(board[:len(board):len(board)], timeclock.User{
				ID:        m.sess.UserID,
				Username:  m.sess.Username,
				FirstName: m.sess.Username,
			})
		}
		return m, m.toggleCmd(board, m.sess.UserID)

	case key.Matches(msg, m.keys.Directory):
		m.mode = modeDirectory
		m.tickGen++ // the board tick stops with the view
		return m, m.loadDirectoryCmd()

	case key.Matches(msg, m.keys.Logout):
		if err := m.store.Clear(); err != nil {
			m.setStatusError(err.Error())
			return m, nil
		}
		m.forceLogin("")
		m.setStatus("You have been logged out.")
		return m, nil
	}
	return m, nil
}

func (m Model) updateDirectoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.dirCursor > 0 {
			m.dirCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.dirCursor < len(m.directory)-1 {
			m.dirCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadDirectoryCmd()

	case key.Matches(msg, m.keys.Select):
		if len(m.directory) == 0 {
			return m, nil
		}
		m.mode = modeDirLogin
		m.resetForm()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Board):
		m.mode = modeBoard
		return m, m.loadBoardCmd()
	}
	return m, nil
}

func (m Model) updateModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CloseForm):
		m.mode = modeDirectory
		m.resetForm()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.swapFormFocus()
		return m, nil
	case key.Matches(msg, m.keys.RevealSecret):
		m.togglePasswordEcho()
		return m, nil
	case key.Matches(msg, m.keys.SubmitClock):
		return m.submitLogin(true)
	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin(false)
	}
	return m.updateFormInputs(msg)
}

func (m *Model) swapFormFocus() {
	if m.username.Focused() {
		m.username.Blur()
		m.password.Focus()
	} else {
		m.password.Blur()
		m.username.Focus()
	}
}

func (m *Model) togglePasswordEcho() {
	if m.password.EchoMode == textinput.EchoPassword {
		m.password.EchoMode = textinput.EchoNormal
	} else {
		m.password.EchoMode = textinput.EchoPassword
	}
}

func (m Model) updateFormInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) submitLogin(withClockIn bool) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	username := m.username.Value()
	password := m.password.Value()
	if username == "" || password == "" {
		m.setStatusError("Please fill in both fields.")
		return m, nil
	}

	m.busy = true
	if withClockIn {
		return m, m.loginAndClockInCmd(username, password)
	}
	return m, m.loginCmd(username, password)
}

// sortSelfFirst moves the authenticated user to the front of the
// directory, preserving the order of everyone else.
func sortSelfFirst(users []api.DirectoryUser, selfID string) []api.DirectoryUser {
	if selfID == "" {
		return users
	}
	for i, user := range users {
		if string(user.ID) == selfID {
			if i == 0 {
				return users
			}
			sorted := make([]api.DirectoryUser, 0, len(users))
			sorted = append(sorted, users[i])
			sorted = append(sorted, users[:i]...)
			sorted = append(sorted, users[i+1:]...)
			return sorted
		}
	}
	return users
}
