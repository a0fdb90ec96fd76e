package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all course progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			cmd.PrintErrln("This clears every score, attempt and completed course. Re-run with --yes to confirm.")
			return nil
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
		if err := d.service.ResetProgress(cmd.Context(), sess); err != nil {
			return userError(cmd, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset. The first course is unlocked.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
