package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/ui/components"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

const titleText = "Q · U · I · Z · G · A · T · E"

// renderTitle returns the spaced-out app title centered in cw.
func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(titleText))
}

// renderStatsBar renders completed courses and the overall progress bar.
func renderStatsBar(m *quiz.CourseMap, cw int) string {
	count := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
		Render(fmt.Sprintf("%d / %d COURSES", m.Completed, m.Total))

	status := lipgloss.NewStyle().Foreground(theme.TextDim).Render("keep going")
	if m.Certificate != nil {
		status = lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("CERTIFIED")
	}

	bar := components.NewProgressBar("", m.Percentage, true, cw-6).View()

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(count + "   " + status + "\n" + bar)
}

// courseBadge summarizes a course row: score, attempts, or lock state.
func courseBadge(c quiz.CourseStatus, maxAttempts int) string {
	switch {
	case c.RedoRequired:
		return "redo required"
	case c.Completed && c.HasScore:
		return fmt.Sprintf("✓ %d%%", c.Score)
	case c.Completed:
		return "✓"
	case !c.Accessible:
		return "locked"
	case c.Attempts > 0:
		return fmt.Sprintf("%d/%d attempts", c.Attempts, maxAttempts)
	default:
		return "open"
	}
}

// courseStyle picks the row color for a course.
func courseStyle(c quiz.CourseStatus) lipgloss.Style {
	switch {
	case c.RedoRequired:
		return theme.RedoRequired
	case c.Completed:
		return theme.Completed
	case c.Accessible:
		return theme.Unlocked
	default:
		return theme.Locked
	}
}
