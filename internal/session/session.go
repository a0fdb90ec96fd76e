// Package session holds the signed-in learner. A Session is passed
// explicitly to every service call; FileStore persists it between CLI
// invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizgate/internal/domain"
)

// Session is an authenticated learner.
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// New starts a session with a fresh random token.
func New(userID, email, fullName, username string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Token:     uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		Username:  username,
		StartedAt: now,
	}
}

// CurrentUserID returns the signed-in user id, or domain.ErrNotAuthenticated.
func (s *Session) CurrentUserID() (string, error) {
	if s == nil || s.UserID == "" {
		return "", domain.ErrNotAuthenticated
	}
	return s.UserID, nil
}

// DisplayName returns the best available name for greetings.
func (s *Session) DisplayName() string {
	switch {
	case s == nil:
		return ""
	case s.FullName != "":
		return s.FullName
	case s.Username != "":
		return s.Username
	default:
		return s.Email
	}
}

// FileStore keeps the current session in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (f *FileStore) Path() string { return f.path }

// Load returns the stored session, or nil when nobody is signed in.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.UserID == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes s with owner-only permissions.
func (f *FileStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent file succeeds.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_STATE_HOME/quizgate/session.json, falling back to
// ~/.local/state.
func DefaultPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "quizgate", "session.json"), nil
}
