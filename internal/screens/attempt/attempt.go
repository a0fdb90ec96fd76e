// Package attempt is the quiz-taking screen: one question at a time, then
// a single graded submission.
package attempt

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/router"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/screens/results"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/layout"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

// defaultOptions label questions that carry no option text.
var defaultOptions = []string{"Option A", "Option B", "Option C", "Option D"}

type accessLoadedMsg struct {
	Access quiz.Access
	Err    error
}

type submittedMsg struct {
	Outcome *quiz.Outcome
	Err     error
}

type phase int

const (
	phaseLoading phase = iota
	phaseBlocked
	phaseAnswering
	phaseConfirm
	phaseSubmitting
)

// AttemptScreen walks the learner through one quiz.
type AttemptScreen struct {
	env      *screen.Env
	courseID string
	quizID   string
	quiz     catalog.Quiz

	phase   phase
	access  quiz.Access
	current int
	choice  components.MultiChoice
	answers map[string]string
	errMsg  string
}

var _ screen.Screen = (*AttemptScreen)(nil)
var _ screen.KeyHintProvider = (*AttemptScreen)(nil)

// New creates an AttemptScreen for quizID, which belongs to courseID.
func New(env *screen.Env, courseID, quizID string) *AttemptScreen {
	q, _ := env.Catalog.Quiz(quizID)
	s := &AttemptScreen{
		env:      env,
		courseID: courseID,
		quizID:   quizID,
		quiz:     q,
		answers:  make(map[string]string, len(q.Questions)),
	}
	s.loadQuestion()
	return s
}

func (s *AttemptScreen) Init() tea.Cmd {
	env, quizID := s.env, s.quizID
	return func() tea.Msg {
		a, err := env.Backend.Access(context.Background(), env.Session, quizID)
		return accessLoadedMsg{Access: a, Err: err}
	}
}

func (s *AttemptScreen) Title() string {
	if course, ok := s.env.Catalog.Course(s.courseID); ok && course.Title != "" {
		return course.Title + " Quiz"
	}
	return "Quiz"
}

func (s *AttemptScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "a-d", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "s", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseConfirm:
		return []layout.KeyHint{
			{Key: "y", Description: "Submit"},
			{Key: "n", Description: "Keep answering"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
}

func (s *AttemptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case accessLoadedMsg:
		s.access = msg.Access
		switch {
		case msg.Err != nil:
			s.block(quiz.UserMessage(msg.Err))
		case msg.Access.Locked && msg.Access.Attempts > 0:
			s.block("Maximum attempts reached. Redo the course to try again.")
		case !msg.Access.Accessible:
			s.block(quiz.UserMessage(domain.ErrQuizInaccessible))
		case len(s.quiz.Questions) == 0:
			s.block(quiz.UserMessage(domain.ErrUnknownQuiz))
		default:
			s.phase = phaseAnswering
		}
		return s, nil

	case submittedMsg:
		if msg.Err != nil {
			s.phase = phaseAnswering
			s.errMsg = quiz.UserMessage(msg.Err)
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: results.New(s.env, msg.Outcome)}
		}

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AttemptScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" && s.phase != phaseSubmitting {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.phase {
	case phaseAnswering:
		switch key {
		case "right", "n", "tab":
			s.move(1)
			return s, nil
		case "left", "p", "shift+tab":
			s.move(-1)
			return s, nil
		case "s":
			s.save()
			s.phase = phaseConfirm
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if key == "enter" || key == "space" || s.choice.Answer() != s.answers[s.questionID()] {
			s.save()
			if s.current < len(s.quiz.Questions)-1 {
				s.move(1)
			} else {
				s.phase = phaseConfirm
			}
		}
		return s, cmd

	case phaseConfirm:
		switch key {
		case "y", "enter":
			return s, s.submit()
		case "n":
			s.phase = phaseAnswering
		}
	}
	return s, nil
}

func (s *AttemptScreen) questionID() string {
	if s.current >= len(s.quiz.Questions) {
		return ""
	}
	return s.quiz.Questions[s.current].ID
}

func (s *AttemptScreen) loadQuestion() {
	if s.current >= len(s.quiz.Questions) {
		return
	}
	q := s.quiz.Questions[s.current]
	prompt := q.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("Question %s", q.ID)
	}
	opts := q.Options
	if len(opts) == 0 {
		opts = defaultOptions
	}
	s.choice = components.NewMultiChoice(prompt, opts, s.answers[q.ID])
}

func (s *AttemptScreen) save() {
	if a := s.choice.Answer(); a != "" {
		s.answers[s.questionID()] = a
	}
}

func (s *AttemptScreen) move(delta int) {
	s.save()
	next := s.current + delta
	if next < 0 || next >= len(s.quiz.Questions) {
		return
	}
	s.current = next
	s.loadQuestion()
}

func (s *AttemptScreen) block(msg string) {
	s.phase = phaseBlocked
	s.errMsg = msg
}

func (s *AttemptScreen) submit() tea.Cmd {
	s.phase = phaseSubmitting
	s.errMsg = ""
	env, quizID := s.env, s.quizID
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return func() tea.Msg {
		out, err := env.Backend.Submit(context.Background(), env.Session, quizID, answers)
		return submittedMsg{Outcome: out, Err: err}
	}
}

// Answered returns how many questions have an answer.
func (s *AttemptScreen) Answered() int {
	return len(s.answers)
}

func (s *AttemptScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	switch s.phase {
	case phaseLoading:
		sections = append(sections, theme.Hint.Render("Checking quiz access..."))

	case phaseBlocked:
		sections = append(sections, components.Banner(s.errMsg, components.BannerError))

	case phaseAnswering, phaseConfirm, phaseSubmitting:
		total := len(s.quiz.Questions)
		header := fmt.Sprintf("Question %d of %d", s.current+1, total)
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(header),
			components.NewProgressBar("", 100*s.Answered()/total, false, cw).View(),
			components.Card(strings.TrimRight(s.choice.View(), "\n"), cw),
		)
		if s.access.Warn {
			sections = append(sections, components.Banner(
				fmt.Sprintf("Only %d attempts remaining!", s.access.Remaining), components.BannerWarning))
		}
		switch s.phase {
		case phaseConfirm:
			prompt := fmt.Sprintf("Submit %d of %d answers? (y/n)", s.Answered(), total)
			sections = append(sections, components.Banner(prompt, components.BannerInfo))
		case phaseSubmitting:
			sections = append(sections, theme.Hint.Render("Grading..."))
		}
		if s.errMsg != "" {
			sections = append(sections, components.Banner(s.errMsg, components.BannerError))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
