package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const PathEnvVar = "CLOCKSPOT_SESSION_PATH"

// Session is the locally persisted credential state: the opaque bearer
// token plus the id/username of the authenticated user. Created on login,
// destroyed on logout or forced expiry.
type Session struct {
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
	Username string `toml:"username"`
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store persists the session to a TOML file. It is passed explicitly to
// the components that need it rather than accessed as a global.
type Store struct {
	path string
}

// NewStore creates a store for the given path. An empty path selects the
// default location (overridable via CLOCKSPOT_SESSION_PATH).
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// DefaultPath returns the session file path from the environment variable
// or defaults to <user config dir>/clockspot/session.toml.
func DefaultPath() string {
	if envValue := os.Getenv(PathEnvVar); envValue != "" {
		return filepath.Clean(envValue)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".clockspot", "session.toml")
	}
	return filepath.Join(configDir, "clockspot", "session.toml")
}

// Load reads the persisted session. A missing file yields an empty
// (unauthenticated) session, not an error.
func (s *Store) Load() (Session, error) {
	var sess Session
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return sess, nil
	}
	if _, err := toml.DecodeFile(s.path, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return sess, nil
}

// Save writes the session. The file carries the bearer token, so it is
// created readable by the owner only.
func (s *Store) Save(sess Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(sess); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
