package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

// ProgressBar is a one-line completion gauge.
type ProgressBar struct {
	Label       string
	Percent     int // clamped to 0..100
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent int, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: min(max(percent, 0), 100), ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var label, suffix string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %4d%%", p.Percent))
	}

	track := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix), 4)
	done := track * p.Percent / 100

	return label +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", done)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", track-done)) +
		suffix
}
