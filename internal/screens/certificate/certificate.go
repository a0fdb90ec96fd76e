package certificate

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/certificate"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

type certificateLoadedMsg struct {
	Cert *profile.Certificate
	Err  error
}

// CertificateScreen renders the learner's completion certificate.
type CertificateScreen struct {
	env    *screen.Env
	cert   *profile.Certificate
	loaded bool
	errMsg string
}

var _ screen.Screen = (*CertificateScreen)(nil)
var _ screen.KeyHintProvider = (*CertificateScreen)(nil)

// New creates a new CertificateScreen.
func New(env *screen.Env) *CertificateScreen {
	return &CertificateScreen{env: env}
}

func (s *CertificateScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		cert, err := env.Backend.Certificate(context.Background(), env.Session)
		return certificateLoadedMsg{Cert: cert, Err: err}
	}
}

func (s *CertificateScreen) Title() string {
	return "Certificate"
}

func (s *CertificateScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *CertificateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case certificateLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = quiz.UserMessage(msg.Err)
			return s, nil
		}
		s.cert = msg.Cert
	case tea.KeyPressMsg:
		if msg.String() == "esc" || msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *CertificateScreen) View(width, height int) string {
	var content string
	switch {
	case !s.loaded:
		content = theme.Hint.Render("Preparing your certificate...")
	case s.errMsg != "":
		content = components.Banner(s.errMsg, components.BannerWarning)
	default:
		content = Render(s.cert)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Render draws a certificate card.
func Render(c *profile.Certificate) string {
	gold := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Underline(true)

	body := lipgloss.JoinVertical(lipgloss.Center,
		gold.Render("CERTIFICATE OF COMPLETION"),
		"",
		dim.Render("This certifies that"),
		name.Render(c.UserName),
		dim.Render("has successfully completed"),
		lipgloss.NewStyle().Foreground(theme.Text).Render(
			fmt.Sprintf("%d of %d courses", c.CoursesCompleted, c.TotalCourses)),
		"",
		dim.Render(certificate.FormatDate(c.CompletionDate)),
		dim.Render(c.CertificateID),
	)
	return theme.CertificateCard.Render(body)
}
