package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

// optionLetters label options in order; answers are the lower-case letter.
const optionLetters = "abcdefgh"

// MultiChoice is a multiple-choice selector component. The choice is
// not judged here; grading happens when the whole quiz is submitted.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int
	// Chosen is the confirmed option index, or -1.
	Chosen int
}

// NewMultiChoice creates a new multiple-choice component. A previously
// chosen answer letter is preselected.
func NewMultiChoice(question string, options []string, previous string) MultiChoice {
	if len(options) > len(optionLetters) {
		options = options[:len(optionLetters)]
	}
	m := MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
	if i := strings.Index(optionLetters[:len(options)], previous); previous != "" && i >= 0 {
		m.Selected = i
		m.Chosen = i
	}
	return m
}

// Update handles keyboard navigation and selection. Letter keys choose the
// matching option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.Chosen = m.Selected
	default:
		if len(key) == 1 {
			if i := strings.Index(optionLetters[:len(m.Options)], key); i >= 0 {
				m.Selected = i
				m.Chosen = i
			}
		}
	}

	return m, nil
}

// Answer returns the chosen option letter, or "" if none was chosen.
func (m MultiChoice) Answer() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return optionLetters[m.Chosen : m.Chosen+1]
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, strings.ToUpper(optionLetters[i:i+1]), opt)

		switch {
		case i == m.Chosen:
			b.WriteString(theme.Correct.Render(line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Body.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
