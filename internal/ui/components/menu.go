package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

// MenuItem is one selectable row. Disabled rows are shown dimmed and
// skipped by the cursor.
type MenuItem struct {
	Label string
	// Badge follows the label, e.g. a score or lock marker.
	Badge    string
	Style    lipgloss.Style
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with up/down and activated with enter.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// Current returns the item under the cursor, or false for an empty menu.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// step moves the cursor to the next enabled item in direction dir. The
// cursor stays put when there is none.
func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "enter":
		if item, ok := m.Current(); ok && !item.Disabled && item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		prefix, style := "    ", item.Style
		switch {
		case item.Disabled:
			style = theme.Locked
		case i == m.Selected:
			prefix, style = "  ▸ ", theme.Selected
		}
		b.WriteString(style.Render(prefix + item.Label))
		if item.Badge != "" {
			b.WriteString("  " + theme.Hint.Render(item.Badge))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
