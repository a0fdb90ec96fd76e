package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all stacked cards.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Banner renders a one-line status message in the given color.
func Banner(msg string, kind BannerKind) string {
	style := lipgloss.NewStyle().Bold(true)
	switch kind {
	case BannerSuccess:
		style = style.Foreground(theme.Success)
	case BannerWarning:
		style = style.Foreground(theme.Warning)
	case BannerError:
		style = style.Foreground(theme.Error)
	default:
		style = style.Foreground(theme.TextDim)
	}
	return style.Render(msg)
}

// BannerKind selects the Banner color.
type BannerKind int

const (
	BannerInfo BannerKind = iota
	BannerSuccess
	BannerWarning
	BannerError
)
