package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgate/internal/screens/certificate"
)

var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Show your certificate of completion",
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
		cert, err := d.service.Certificate(cmd.Context(), sess)
		if err != nil {
			return userError(cmd, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), certificate.Render(cert))
		return nil
	},
}
