package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Show the course map and your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		sess, err := d.session()
		if err != nil {
			return userError(cmd, err)
		}
		m, err := d.service.CourseMap(cmd.Context(), sess)
		if err != nil {
			return userError(cmd, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-10s  %-36s  %-8s  %5s  %s\n", "Course", "Title", "Quiz", "Score", "Status")
		fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("─", 80))
		for _, c := range m.Courses {
			title := c.Title
			if len(title) > 36 {
				title = title[:33] + "..."
			}
			score := "-"
			if c.HasScore {
				score = fmt.Sprintf("%d%%", c.Score)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s  %-36s  %-8s  %5s  %s\n", c.CourseID, title, c.QuizID, score, courseStatus(c))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d courses completed (%d%%)\n", m.Completed, m.Total, m.Percentage)
		if m.Certificate != nil {
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.NewStyle().Foreground(theme.Gold).Render(
				"Certificate earned. Run `quizgate certificate` to view it."))
		}
		return nil
	},
}

func courseStatus(c quiz.CourseStatus) string {
	switch {
	case c.Completed:
		return theme.Completed.Render("completed")
	case c.RedoRequired:
		return theme.RedoRequired.Render("redo required")
	case c.Accessible:
		if c.Attempts > 0 {
			return theme.Unlocked.Render(fmt.Sprintf("unlocked, %d attempts left", c.Remaining))
		}
		return theme.Unlocked.Render("unlocked")
	default:
		return theme.Locked.Render("locked")
	}
}
