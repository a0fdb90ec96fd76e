package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/quizgate/internal/domain"
)

func TestCurrentUserID(t *testing.T) {
	var nilSession *Session
	if _, err := nilSession.CurrentUserID(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("nil session: got %v, want ErrNotAuthenticated", err)
	}
	if _, err := (&Session{}).CurrentUserID(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("empty session: got %v, want ErrNotAuthenticated", err)
	}
	id, err := (&Session{UserID: "u1"}).CurrentUserID()
	if err != nil || id != "u1" {
		t.Errorf("got %q, %v", id, err)
	}
}

func TestNew_UniqueTokens(t *testing.T) {
	now := time.Now()
	a := New("u1", "a@b.c", "", "", now)
	b := New("u1", "a@b.c", "", "", now)
	if a.Token == "" || a.Token == b.Token {
		t.Errorf("tokens not unique: %q %q", a.Token, b.Token)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (&Session{Email: "a@b.c"}).DisplayName(); got != "a@b.c" {
		t.Errorf("got %q", got)
	}
	if got := (&Session{Username: "ada", Email: "a@b.c"}).DisplayName(); got != "ada" {
		t.Errorf("got %q", got)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	fs := NewFileStore(path)

	s, err := fs.Load()
	if err != nil || s != nil {
		t.Fatalf("Load(absent) = %+v, %v", s, err)
	}

	want := New("u1", "ada@example.com", "Ada", "ada", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := fs.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %o, want 600", info.Mode().Perm())
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UserID != want.UserID || got.Token != want.Token || !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if err := fs.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := fs.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	got, _ = fs.Load()
	if got != nil {
		t.Error("session still present after Clear")
	}
}
