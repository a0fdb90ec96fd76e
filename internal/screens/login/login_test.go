package login

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgate/internal/identity"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/screen/screentest"
	"github.com/abhisek/quizgate/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "courses" }
func (s *stubScreen) Title() string                           { return "Courses" }

func signedOutEnv(t *testing.T) *screentest.Env {
	t.Helper()
	env := screentest.New(t)
	_, err := env.Auth.SignUp(context.Background(), identity.Registration{
		FullName:        "Grace Hopper",
		Username:        "grace",
		Email:           "grace@example.com",
		Password:        "cobol59",
		ConfirmPassword: "cobol59",
		AcceptTerms:     true,
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	env.Session = nil
	return env
}

func fill(s *LoginScreen, email, password string) {
	s.inputs[0].Model.SetValue(email)
	s.inputs[1].Model.SetValue(password)
}

func TestSignIn(t *testing.T) {
	env := signedOutEnv(t)
	var saved *session.Session
	env.SaveSession = func(s *session.Session) error {
		saved = s
		return nil
	}

	s := New(env.Env, func() screen.Screen { return &stubScreen{} })
	s.Init()
	fill(s, "grace@example.com", "cobol59")

	// Enter on the email field moves to the password field.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.focus != 1 {
		t.Fatalf("focus = %d, want 1", s.focus)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || !s.busy {
		t.Fatal("enter on the password field should sign in")
	}
	_, next := s.Update(cmd())
	if next == nil {
		t.Fatalf("expected transition, err %q", s.errMsg)
	}
	if _, ok := next().(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}

	if env.Session == nil || env.Session.FullName != "Grace Hopper" {
		t.Errorf("env session = %+v", env.Session)
	}
	if saved != env.Session {
		t.Error("session should be persisted")
	}
}

func TestWrongPassword(t *testing.T) {
	env := signedOutEnv(t)
	s := New(env.Env, func() screen.Screen { return &stubScreen{} })
	fill(s, "grace@example.com", "fortran")
	s.focus = 1

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("failed sign-in should not transition")
	}
	if s.errMsg != "Incorrect password." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if env.Session != nil {
		t.Error("session should stay empty")
	}
}

func TestUnknownAccount(t *testing.T) {
	env := signedOutEnv(t)
	s := New(env.Env, func() screen.Screen { return &stubScreen{} })
	fill(s, "nobody@example.com", "secret1")
	s.focus = 1

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if s.errMsg != "No account found with this email address." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestTabCyclesFocus(t *testing.T) {
	env := signedOutEnv(t)
	s := New(env.Env, func() screen.Screen { return &stubScreen{} })

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.focus != 0 {
		t.Errorf("focus = %d, want 0 after wrapping", s.focus)
	}
}
