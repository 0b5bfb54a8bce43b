package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finbrains/finbrains/internal/common"
)

// SessionState is the lifecycle position of the auth session.
type SessionState int

// Session lifecycle states.
const (
	SessionUnset SessionState = iota
	SessionSet
	SessionCleared
)

// Session carries the backend bearer token. It is injected into the client
// explicitly; there is no ambient token storage. The token file is the only
// persisted local state of the application.
type Session struct {
	token string
	state SessionState
}

// NewSession returns an unset session.
func NewSession() *Session {
	return &Session{}
}

// LoadSession reads a saved token file. A missing file yields an unset
// session, not an error.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from our own config dir
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return &Session{}, nil
	}
	return &Session{token: token, state: SessionSet}, nil
}

// Set installs a token and moves the session to the set state.
func (s *Session) Set(token string) {
	s.token = token
	s.state = SessionSet
}

// Clear drops the token. A cleared session never becomes unset again.
func (s *Session) Clear() {
	s.token = ""
	s.state = SessionCleared
}

// Token returns the bearer token and whether one is set.
func (s *Session) Token() (string, bool) {
	return s.token, s.state == SessionSet && s.token != ""
}

// State returns the session lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Save persists the token to path (0600). Saving a session without a token
// removes the file.
func (s *Session) Save(path string) error {
	if _, ok := s.Token(); !ok {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Require returns the token or ErrNoSession.
func (s *Session) Require() (string, error) {
	token, ok := s.Token()
	if !ok {
		return "", common.ErrNoSession
	}
	return token, nil
}
