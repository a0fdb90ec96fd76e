// Package screen defines the contract between the router and the TUI
// screens, plus the navigation messages screens exchange.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgate/internal/ui/layout"
)

// Screen is one page of the TUI. The router owns a stack of them and
// forwards messages to the top one.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// RefreshMsg asks a screen to reload its data.
type RefreshMsg struct{}

// StartQuizMsg asks the course map to open a quiz.
type StartQuizMsg struct {
	CourseID string
	QuizID   string
}

// ShowCertificateMsg asks the course map to open the certificate.
type ShowCertificateMsg struct{}

// ProgressMsg updates the completion percentage shown in the header.
type ProgressMsg struct {
	Percent int
}
