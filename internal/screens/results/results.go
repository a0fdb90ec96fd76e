package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/grading"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

// ResultsScreen shows the outcome of a submission.
type ResultsScreen struct {
	env     *screen.Env
	outcome *quiz.Outcome
	buttons components.ButtonRow
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a new ResultsScreen.
func New(env *screen.Env, outcome *quiz.Outcome) *ResultsScreen {
	s := &ResultsScreen{env: env, outcome: outcome}

	var buttons []components.Button
	if outcome.Status == quiz.StatusFailed {
		retry := screen.StartQuizMsg{CourseID: outcome.CourseID, QuizID: outcome.Attempt.QuizID}
		buttons = append(buttons, components.NewButton("Try again", false, backTo(retry)))
	}
	if outcome.Certificate != nil {
		buttons = append(buttons, components.NewButton("View certificate", false, backTo(screen.ShowCertificateMsg{})))
	}
	buttons = append(buttons, components.NewButton("Back to courses", false, backTo(nil)))
	s.buttons = components.NewButtonRow(buttons...)
	return s
}

// backTo unwinds to the course map, refreshing it, and then delivers next.
func backTo(next tea.Msg) func() tea.Cmd {
	return func() tea.Cmd {
		cmds := []tea.Cmd{func() tea.Msg { return router.PopToRootMsg{Msg: screen.RefreshMsg{}} }}
		if next != nil {
			cmds = append(cmds, func() tea.Msg { return next })
		}
		return tea.Sequence(cmds...)
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Quiz Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Courses"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "esc" {
		return s, backTo(nil)()
	}
	var cmd tea.Cmd
	s.buttons, cmd = s.buttons.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	out := s.outcome
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, headline(out))

	if rec := out.Record; rec != nil {
		score := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("%d%%", rec.Score))
		detail := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d of %d correct", rec.Correct, rec.Total))
		sections = append(sections, components.Card(
			lipgloss.JoinVertical(lipgloss.Center, score, detail, "", levelText(rec.Level())), cw))
	}

	sections = append(sections, notes(out)...)
	sections = append(sections, s.buttons.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func headline(out *quiz.Outcome) string {
	switch out.Status {
	case quiz.StatusPassed:
		return theme.Correct.Render("Quiz passed!")
	case quiz.StatusLocked:
		return theme.Incorrect.Render("Quiz locked")
	default:
		return theme.Incorrect.Render("Not quite there yet")
	}
}

func levelText(l grading.Level) string {
	style := lipgloss.NewStyle().Italic(true)
	switch l {
	case grading.LevelExcellent, grading.LevelGood:
		style = style.Foreground(theme.Success)
	case grading.LevelAverage:
		style = style.Foreground(theme.Accent)
	default:
		style = style.Foreground(theme.Warning)
	}
	return style.Render(l.Message())
}

// notes explains what the outcome changed: unlocks, attempts left, lockout.
func notes(out *quiz.Outcome) []string {
	var lines []string
	switch out.Status {
	case quiz.StatusPassed:
		if out.NextCourseID != "" && out.NextUnlocked {
			lines = append(lines, components.Banner(
				fmt.Sprintf("Course complete! %s is now unlocked.", out.NextCourseID), components.BannerSuccess))
		} else {
			lines = append(lines, components.Banner("Course complete!", components.BannerSuccess))
		}
		if out.Certificate != nil {
			lines = append(lines, components.Banner(
				"All courses complete! Your certificate is ready.", components.BannerSuccess))
		}
	case quiz.StatusFailed:
		kind := components.BannerInfo
		if out.Attempt.Remaining <= quiz.WarnRemaining {
			kind = components.BannerWarning
		}
		lines = append(lines, components.Banner(
			fmt.Sprintf("Attempts remaining: %d", out.Attempt.Remaining), kind))
	case quiz.StatusLocked:
		lines = append(lines, components.Banner(
			"Maximum attempts reached. Redo the course to try again.", components.BannerError))
	}
	return lines
}
