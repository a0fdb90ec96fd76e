// Package login signs a learner in from inside the TUI.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/identity"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/session"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

type signedInMsg struct {
	Session *session.Session
	Err     error
}

// LoginScreen collects email and password.
type LoginScreen struct {
	env     *screen.Env
	next    func() screen.Screen
	inputs  []components.TextInput
	focus   int
	busy    bool
	errMsg  string
	started bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen that replaces itself with next() once the
// learner is signed in.
func New(env *screen.Env, next func() screen.Screen) *LoginScreen {
	return &LoginScreen{
		env:  env,
		next: next,
		inputs: []components.TextInput{
			components.NewTextInput("Email", "you@example.com", false, 254),
			components.NewTextInput("Password", "", true, 128),
		},
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.inputs[0].Focus()
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = identity.MessageFor(identity.OpSignIn, msg.Err)
			return s, nil
		}
		return s, s.finish(msg.Session)

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % len(s.inputs))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.inputs) - 1) % len(s.inputs))
		case "enter":
			if s.focus < len(s.inputs)-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[s.focus].Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	s.busy = true
	s.errMsg = ""
	creds := identity.Credentials{
		Email:    strings.TrimSpace(s.inputs[0].Value()),
		Password: s.inputs[1].Value(),
	}
	auth := s.env.Auth
	return func() tea.Msg {
		sess, err := auth.SignIn(context.Background(), creds)
		return signedInMsg{Session: sess, Err: err}
	}
}

func (s *LoginScreen) finish(sess *session.Session) tea.Cmd {
	if s.started {
		return nil
	}
	s.started = true
	s.env.Session = sess
	if s.env.SaveSession != nil {
		if err := s.env.SaveSession(sess); err != nil && s.env.Log != nil {
			s.env.Log.Warn("save session failed", zap.Error(err))
		}
	}
	next := s.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	fields := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		fields[i] = in.View()
	}

	sections := []string{
		theme.Title.Render("Welcome back"),
		components.Card(strings.Join(fields, "\n\n"), cw),
	}
	switch {
	case s.busy:
		sections = append(sections, theme.Hint.Render("Signing in..."))
	case s.errMsg != "":
		sections = append(sections, components.Banner(s.errMsg, components.BannerError))
	}
	sections = append(sections, theme.Hint.Render("No account yet? Run: quizgate signup"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
