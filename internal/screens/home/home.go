package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/screens/attempt"
	certscreen "github.com/abhisek/quizgate/internal/screens/certificate"
	"github.com/abhisek/quizgate/internal/screens/history"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

type courseMapLoadedMsg struct {
	Map *quiz.CourseMap
	Err error
}

type redoDoneMsg struct {
	CourseID string
	Err      error
}

// HomeScreen is the course map: every course with its lock state, score
// and attempts, plus overall completion.
type HomeScreen struct {
	env    *screen.Env
	cm     *quiz.CourseMap
	menu   components.Menu
	status string
	kind   components.BannerKind
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	return &HomeScreen{env: env}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		m, err := env.Backend.CourseMap(context.Background(), env.Session)
		return courseMapLoadedMsg{Map: m, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Courses"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Take quiz"},
	}
	if c, ok := h.selected(); ok && c.RedoRequired {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Redo course"})
	}
	return append(hints,
		layout.KeyHint{Key: "c", Description: "Certificate"},
		layout.KeyHint{Key: "h", Description: "History"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case courseMapLoadedMsg:
		if msg.Err != nil {
			h.errMsg = quiz.UserMessage(msg.Err)
			return h, nil
		}
		h.errMsg = ""
		h.setMap(msg.Map)
		return h, func() tea.Msg { return screen.ProgressMsg{Percent: msg.Map.Percentage} }

	case redoDoneMsg:
		if msg.Err != nil {
			h.setStatus(quiz.UserMessage(msg.Err), components.BannerError)
			return h, nil
		}
		h.setStatus("Attempts cleared. You can retake the quiz now.", components.BannerSuccess)
		return h, h.load()

	case screen.RefreshMsg:
		return h, h.load()

	case screen.StartQuizMsg:
		return h, push(attempt.New(h.env, msg.CourseID, msg.QuizID))

	case screen.ShowCertificateMsg:
		return h, push(certscreen.New(h.env))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "c":
			return h, push(certscreen.New(h.env))
		case "h":
			return h, push(history.New(h.env))
		case "r":
			return h, h.redo()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) setMap(m *quiz.CourseMap) {
	selected := h.menu.Selected
	h.cm = m
	items := make([]components.MenuItem, 0, len(m.Courses))
	for _, c := range m.Courses {
		items = append(items, components.MenuItem{
			Label:    c.Title,
			Badge:    courseBadge(c, c.Attempts+c.Remaining),
			Style:    courseStyle(c),
			Disabled: !c.Accessible,
			Action:   h.open(c),
		})
	}
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) open(c quiz.CourseStatus) func() tea.Cmd {
	return func() tea.Cmd {
		if c.RedoRequired {
			h.setStatus("Maximum attempts reached. Press r to redo this course.", components.BannerWarning)
			return nil
		}
		return push(attempt.New(h.env, c.CourseID, c.QuizID))
	}
}

func (h *HomeScreen) redo() tea.Cmd {
	c, ok := h.selected()
	if !ok || !c.RedoRequired {
		return nil
	}
	env := h.env
	return func() tea.Msg {
		err := env.Backend.RedoCourse(context.Background(), env.Session, c.CourseID)
		if err != nil && env.Log != nil {
			env.Log.Warn("redo course failed", zap.String("course_id", c.CourseID), zap.Error(err))
		}
		return redoDoneMsg{CourseID: c.CourseID, Err: err}
	}
}

func (h *HomeScreen) selected() (quiz.CourseStatus, bool) {
	if h.cm == nil || h.menu.Selected < 0 || h.menu.Selected >= len(h.cm.Courses) {
		return quiz.CourseStatus{}, false
	}
	return h.cm.Courses[h.menu.Selected], true
}

func (h *HomeScreen) setStatus(msg string, kind components.BannerKind) {
	h.status = msg
	h.kind = kind
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if h.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			components.Banner(h.errMsg, components.BannerError))
	}
	if h.cm == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading courses..."))
	}

	sections := []string{
		renderTitle(cw),
		renderStatsBar(h.cm, cw),
		components.Card(strings.TrimRight(h.menu.View(), "\n"), cw),
	}
	if h.status != "" {
		sections = append(sections, components.Banner(h.status, h.kind))
	}
	if h.cm.Certificate != nil {
		sections = append(sections, components.Banner("All courses complete! Press c to view your certificate.", components.BannerSuccess))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}
