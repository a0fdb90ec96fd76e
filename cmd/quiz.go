package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Check, take and submit quizzes",
}

var quizStatusCmd = &cobra.Command{
	Use:   "status <quizID>",
	Short: "Show whether a quiz can be taken and how many attempts remain",
	Args:  cobra.ExactArgs(1),
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
		a, err := d.service.Access(cmd.Context(), sess, args[0])
		if err != nil {
			return userError(cmd, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Quiz %s (course %s)\n", a.QuizID, a.CourseID)
		switch {
		case !a.Accessible:
			fmt.Fprintln(cmd.OutOrStdout(), theme.Locked.Render(quiz.UserMessage(domain.ErrQuizInaccessible)))
		case a.Completed:
			fmt.Fprintln(cmd.OutOrStdout(), theme.Completed.Render("Completed."))
		case a.Locked:
			fmt.Fprintln(cmd.OutOrStdout(), theme.RedoRequired.Render("Maximum attempts reached. Redo the course to try again."))
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Attempts: %d of %d used, %d remaining\n", a.Attempts, a.MaxAttempts, a.Remaining)
			if a.Warn {
				fmt.Fprintln(cmd.OutOrStdout(), lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
					Render(fmt.Sprintf("Only %d attempts remaining!", a.Remaining)))
			}
		}
		return nil
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:     "submit <quizID>",
	Short:   "Grade a set of answers",
	Example: "  quizgate quiz submit quiz1 --answers q1=b,q2=a,q3=d",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("answers")
		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		sess, err := d.session()
		if err != nil {
			return userError(cmd, err)
		}
		out, err := d.service.Submit(cmd.Context(), sess, args[0], answers)
		if err != nil {
			return userError(cmd, err)
		}
		printOutcome(cmd, out)
		return nil
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <quizID>",
	Short: "Take a quiz interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, runOptions{quizID: args[0]})
	},
}

func init() {
	quizSubmitCmd.Flags().String("answers", "", "Comma separated question=letter pairs")
	_ = quizSubmitCmd.MarkFlagRequired("answers")

	quizCmd.AddCommand(quizStatusCmd)
	quizCmd.AddCommand(quizSubmitCmd)
	quizCmd.AddCommand(quizTakeCmd)
}

// parseAnswers reads "q1=b,q2=a" into a question -> letter map.
func parseAnswers(raw string) (map[string]string, error) {
	answers := make(map[string]string)
	for pair := range strings.SplitSeq(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		q, a, ok := strings.Cut(pair, "=")
		q, a = strings.TrimSpace(q), strings.ToLower(strings.TrimSpace(a))
		if !ok || q == "" || a == "" {
			return nil, fmt.Errorf("invalid answer %q (want question=letter)", pair)
		}
		if _, dup := answers[q]; dup {
			return nil, fmt.Errorf("question %q answered twice", q)
		}
		answers[q] = a
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers given")
	}
	return answers, nil
}

func printOutcome(cmd *cobra.Command, out *quiz.Outcome) {
	if out.Record == nil {
		fmt.Fprintln(cmd.OutOrStdout(), theme.RedoRequired.Render("Maximum attempts reached. Redo the course to try again."))
		return
	}

	rec := out.Record
	verdict := theme.Incorrect.Render("Failed")
	if rec.Passed {
		verdict = theme.Correct.Render("Passed")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %d%% (%d of %d correct)\n", verdict, rec.Score, rec.Correct, rec.Total)
	fmt.Fprintln(cmd.OutOrStdout(), rec.Level().Message())

	switch out.Status {
	case quiz.StatusPassed:
		if out.NextCourseID != "" && out.NextUnlocked {
			fmt.Fprintf(cmd.OutOrStdout(), "Course %s is now unlocked.\n", out.NextCourseID)
		}
		if out.Certificate != nil {
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
				Render("All courses complete! Run `quizgate certificate` to view your certificate."))
		}
	case quiz.StatusLocked:
		fmt.Fprintln(cmd.OutOrStdout(), theme.RedoRequired.Render(
			fmt.Sprintf("Maximum attempts reached. Run `quizgate redo %s` to try again.", out.CourseID)))
	default:
		msg := fmt.Sprintf("%d attempts remaining.", out.Attempt.Remaining)
		if out.Attempt.Remaining <= quiz.WarnRemaining {
			msg = lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
				Render(fmt.Sprintf("Only %d attempts remaining!", out.Attempt.Remaining))
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
}
