package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/screens/attempt"
	"github.com/abhisek/quizgate/internal/screens/home"
	"github.com/abhisek/quizgate/internal/screens/login"
	"github.com/abhisek/quizgate/internal/screens/welcome"
	"github.com/abhisek/quizgate/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Env *screen.Env

	// StartCourse and StartQuiz open a quiz directly on top of the
	// course map.
	StartCourse string
	StartQuiz   string

	// SkipSplash starts without the welcome animation.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	env     *screen.Env
	start   tea.Cmd
	percent int
	width   int
	height  int
}

// newAppModel builds the initial screen stack from opts.
func newAppModel(opts Options) AppModel {
	env := opts.Env
	m := AppModel{env: env}

	courses := func() screen.Screen { return home.New(env) }
	first := courses
	if env.Session == nil {
		first = func() screen.Screen { return login.New(env, courses) }
	}

	switch {
	case opts.StartQuiz != "" && env.Session != nil:
		m.router = router.New(courses())
		quiz := attempt.New(env, opts.StartCourse, opts.StartQuiz)
		m.start = func() tea.Msg { return router.PushScreenMsg{Screen: quiz} }
	case opts.SkipSplash:
		m.router = router.New(first())
	default:
		m.router = router.New(welcome.New(first))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.start)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.percent = msg.Percent
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame as a string.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.env.Learner(), m.percent, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
