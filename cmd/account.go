package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/abhisek/quizgate/internal/identity"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a learner account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		reg := identity.Registration{}
		reg.FullName, _ = cmd.Flags().GetString("name")
		reg.Username, _ = cmd.Flags().GetString("username")
		reg.Email, _ = cmd.Flags().GetString("email")
		reg.AcceptTerms, _ = cmd.Flags().GetBool("accept-terms")

		in := bufio.NewReader(cmd.InOrStdin())
		if reg.Password, err = readSecret(cmd, in, "Password: "); err != nil {
			return err
		}
		if reg.ConfirmPassword, err = readSecret(cmd, in, "Confirm password: "); err != nil {
			return err
		}

		sess, err := d.auth.SignUp(cmd.Context(), reg)
		if err != nil {
			cmd.PrintErrln(identity.MessageFor(identity.OpSignUp, err))
			return reportedError{err}
		}
		if err := d.sessions.Save(sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Your first course is unlocked.\n", sess.DisplayName())
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		creds := identity.Credentials{}
		creds.Email, _ = cmd.Flags().GetString("email")
		in := bufio.NewReader(cmd.InOrStdin())
		if creds.Email == "" {
			if creds.Email, err = readLine(cmd, in, "Email: "); err != nil {
				return err
			}
		}
		if creds.Password, err = readSecret(cmd, in, "Password: "); err != nil {
			return err
		}

		sess, err := d.auth.SignIn(cmd.Context(), creds)
		if err != nil {
			cmd.PrintErrln(identity.MessageFor(identity.OpSignIn, err))
			return reportedError{err}
		}
		if err := d.sessions.Save(sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", sess.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.sess == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		// The local session is dropped even when the provider fails.
		if err := d.auth.SignOut(cmd.Context(), d.sess); err != nil {
			d.log.Warn("sign out", zap.String("user_id", d.sess.UserID), zap.Error(err))
		}
		if err := d.sessions.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in learner",
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
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", sess.DisplayName(), sess.Email)
		return nil
	},
}

func init() {
	signupCmd.Flags().String("name", "", "Full name")
	signupCmd.Flags().String("username", "", "Username")
	signupCmd.Flags().String("email", "", "Email address")
	signupCmd.Flags().Bool("accept-terms", false, "Accept the terms and conditions")

	loginCmd.Flags().String("email", "", "Email address")
}

// readSecret prompts for a password without echo when stdin is a terminal,
// and reads a plain line otherwise.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(fd) {
		return readLine(cmd, in, "")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func readLine(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
