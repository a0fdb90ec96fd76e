// Package layout draws the chrome around every screen: a header with the
// learner's progress, a footer of key hints and the size guard.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/ui/theme"
)

// Smallest terminal the course map and quiz screens fit in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// RenderHeader shows the app name, the screen title in the middle and, once
// somebody is signed in, their name and course completion on the right.
func RenderHeader(title, learner string, percent int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  quizgate")
	middle := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	var who string
	if learner != "" {
		who = lipgloss.NewStyle().Foreground(theme.TextDim).Render(learner) +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("  %d%%", percent)) + "  "
	}

	// Border takes two columns, the padding two more.
	inner := max(width-4, 0)
	bw, mw, ww := lipgloss.Width(brand), lipgloss.Width(middle), lipgloss.Width(who)
	gapL := max((inner-mw)/2-bw, 1)
	gapR := max(inner-bw-gapL-mw-ww, 1)

	line := brand + strings.Repeat(" ", gapL) + middle + strings.Repeat(" ", gapR) + who
	return bar.Width(width).Render(line)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, stretching the content to
// fill whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content = lipgloss.NewStyle().Width(width).Height(body).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// Centered places each line of content in the horizontal middle of width.
func Centered(content string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
