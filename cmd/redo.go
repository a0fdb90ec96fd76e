package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var redoCmd = &cobra.Command{
	Use:   "redo <courseID>",
	Short: "Reset the attempt counter of a course's quiz",
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
		if err := d.service.RedoCourse(cmd.Context(), sess, args[0]); err != nil {
			return userError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Attempts for %s cleared. Review the course and try the quiz again.\n", args[0])
		return nil
	},
}
