package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/store"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

// Limit caps how many events the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Events []journal.Event
	Err    error
}

// HistoryScreen lists the learner's recent progression events.
type HistoryScreen struct {
	env      *screen.Env
	events   []journal.Event
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env}
}

func (s *HistoryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		userID, err := env.Session.CurrentUserID()
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		if env.Events == nil {
			return historyLoadedMsg{}
		}
		events, err := env.Events.List(context.Background(), userID, store.QueryOpts{Limit: Limit, Newest: true})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = quiz.UserMessage(msg.Err)
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing here yet. Take your first quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selection in view.
	visible := max(height-2, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.events))

	for i := start; i < end; i++ {
		ev := s.events[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(kindColor(ev))
		if i == s.selected {
			prefix = "> "
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s%s  %s", prefix, ev.Timestamp.Local().Format("Jan 02, 2006 15:04"), Describe(ev))
		b.WriteString(layout.Centered(style.Render(line), width))
		b.WriteString("\n")
	}

	return b.String()
}

// Describe renders one event as a sentence.
func Describe(ev journal.Event) string {
	switch ev.Kind {
	case journal.KindAttempt:
		verdict := "failed"
		if ev.Passed {
			verdict = "passed"
		}
		return fmt.Sprintf("%s attempt: %d%% (%s)", ev.QuizID, ev.Score, verdict)
	case journal.KindCourseCompleted:
		return fmt.Sprintf("%s completed", ev.CourseID)
	case journal.KindCertificateIssued:
		return fmt.Sprintf("certificate issued %s", ev.Detail)
	case journal.KindCourseRedo:
		return fmt.Sprintf("%s attempts reset for redo", ev.CourseID)
	case journal.KindProgressReset:
		return "progress reset"
	default:
		return string(ev.Kind)
	}
}

func kindColor(ev journal.Event) color.Color {
	switch ev.Kind {
	case journal.KindAttempt:
		if ev.Passed {
			return theme.Success
		}
		return theme.Error
	case journal.KindCourseCompleted:
		return theme.Secondary
	case journal.KindCertificateIssued:
		return theme.Gold
	default:
		return theme.TextDim
	}
}
