package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wisdomfoli/clockin-status-board/session"
	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

// ErrUnauthenticated means no usable token: either none is stored (the
// request was short-circuited before any network I/O) or the server
// answered 401, in which case the stored session has been cleared and the
// caller should navigate to the login screen.
var ErrUnauthenticated = errors.New("authentication required")

// Client handles HTTP communication with the time-clock backend. The
// bearer token is read from the injected session store on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout time.Duration, store *session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		store: store,
	}
}

// Login authenticates and persists the returned token plus user identity
// to the session store.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.post(ctx, "/auth/user-login/", body, false)
	if err != nil {
		return session.Session{}, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return session.Session{}, serverError("login", resp.StatusCode, raw)
	}

	// The user object may arrive wrapped ({"user": {...}}) or bare.
	var wrapped loginResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return session.Session{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	user := wrapped.User
	if user.Access == "" {
		if err := json.Unmarshal(raw, &user); err != nil {
			return session.Session{}, fmt.Errorf("failed to decode login response: %w", err)
		}
	}
	if user.Access == "" {
		return session.Session{}, errors.New("login response carried no access token")
	}

	sess := session.Session{
		Token:    user.Access,
		UserID:   string(user.ID),
		Username: user.Username,
	}
	if err := c.store.Save(sess); err != nil {
		return session.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return sess, nil
}

// TodayClockRecords fetches today's raw clock records for all users.
func (c *Client) TodayClockRecords(ctx context.Context) ([]timeclock.RecordRow, error) {
	resp, err := c.get(ctx, "/users/today_clock/", true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, serverError("fetch clock records", resp.StatusCode, raw)
	}

	var result todayClocksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode clock records: %w", err)
	}
	return result.Results, nil
}

// Users fetches the user directory. The token is attached when present but
// the endpoint is reachable without one.
func (c *Client) Users(ctx context.Context) ([]DirectoryUser, error) {
	resp, err := c.get(ctx, "/users/", false)
	if err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, serverError("fetch users", resp.StatusCode, raw)
	}

	var users []DirectoryUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// ClockIn opens a session for the authenticated user. A refusal because a
// session is already open is returned as *timeclock.ConflictError carrying
// the existing clock-in instant; the server reports that case both as a
// non-2xx payload and as a 2xx body with success=false.
func (c *Client) ClockIn(ctx context.Context) (time.Time, error) {
	resp, err := c.post(ctx, "/users/clock-in/", struct{}{}, true)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var result clockInResponse
	// Tolerate an undecodable body; status alone decides then.
	_ = json.Unmarshal(raw, &result)

	refused := resp.StatusCode < 200 || resp.StatusCode > 299 ||
		(result.Success != nil && !*result.Success)
	if refused {
		if opened, ok := timeclock.ParseInstant(result.ClockInTime); ok {
			return time.Time{}, &timeclock.ConflictError{
				Message:  result.Message,
				OpenedAt: opened,
			}
		}
		return time.Time{}, serverError("clock in", resp.StatusCode, raw)
	}

	at, _ := timeclock.ParseInstant(result.ClockInTime)
	return at, nil
}

// ClockOut closes the authenticated user's open session.
func (c *Client) ClockOut(ctx context.Context) error {
	resp, err := c.post(ctx, "/users/clock-out/", struct{}{}, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return serverError("clock out", resp.StatusCode, raw)
	}
	return nil
}

// HTTP helpers

func (c *Client) get(ctx context.Context, path string, needsAuth bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, needsAuth)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, needsAuth bool) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	return c.do(req, needsAuth)
}

// do attaches the stored bearer token and runs the request. Requests that
// need auth short-circuit with ErrUnauthenticated before any network I/O
// when no token is stored; a 401 answer clears the stored session.
func (c *Client) do(req *http.Request, needsAuth bool) (*http.Response, error) {
	sess, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if needsAuth && !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}

	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if clearErr := c.store.Clear(); clearErr != nil {
			return nil, fmt.Errorf("session expired, and clearing it failed: %w", clearErr)
		}
		return nil, ErrUnauthenticated
	}
	return resp, nil
}

// serverError builds a one-shot error from a failed response, extracting
// the server message when the body allows it.
func serverError(op string, status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = body.Detail
	}
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		return fmt.Errorf("%s failed (status %d)", op, status)
	}
	return fmt.Errorf("%s failed (status %d): %s", op, status, message)
}
