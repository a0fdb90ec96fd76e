package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/screens/history"
	"github.com/abhisek/quizgate/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your recent quiz activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		sess, err := d.session()
		if err != nil {
			return userError(cmd, err)
		}
		events, err := d.store.EventRepo().List(cmd.Context(), sess.UserID, store.QueryOpts{
			Limit:  limit,
			Kind:   journal.Kind(kind),
			Newest: true,
		})
		if err != nil {
			return userError(cmd, err)
		}

		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No activity yet.")
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04"), history.Describe(ev))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of events")
	historyCmd.Flags().String("kind", "", "Only show events of this kind (attempt, course-completed, certificate-issued, course-redo, progress-reset)")
}
