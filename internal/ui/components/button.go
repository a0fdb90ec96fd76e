package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

var (
	buttonActive = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2)

	buttonInactive = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Padding(0, 2)
)

// Button is a styled button component.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return buttonActive.Render("▸ " + b.Label)
	}
	return buttonInactive.Render("  " + b.Label)
}

// ButtonRow lets the learner move between buttons with left/right and
// press the focused one with enter.
type ButtonRow struct {
	Buttons []Button
	Focus   int
}

// NewButtonRow focuses the first button.
func NewButtonRow(buttons ...Button) ButtonRow {
	r := ButtonRow{Buttons: buttons}
	r.sync()
	return r
}

// Update handles focus movement and forwards enter to the focused button.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}
	switch kmsg.String() {
	case "left", "h", "shift+tab":
		if r.Focus > 0 {
			r.Focus--
		}
	case "right", "l", "tab":
		if r.Focus < len(r.Buttons)-1 {
			r.Focus++
		}
	default:
		var cmd tea.Cmd
		r.Buttons[r.Focus], cmd = r.Buttons[r.Focus].Update(msg)
		return r, cmd
	}
	r.sync()
	return r, nil
}

func (r *ButtonRow) sync() {
	for i := range r.Buttons {
		r.Buttons[i].Active = i == r.Focus
	}
}

// View renders the buttons side by side.
func (r ButtonRow) View() string {
	views := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		views[i] = b.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
