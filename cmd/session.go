package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword reads a secret without echo on a terminal, or one line from
// piped input
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newSignUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Long: `Create an account on this instance and start a session for it.

The password is read from the terminal without echo, or from stdin
when input is piped.

Example:
  jamboard signup --name "Ava" --email ava@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			secret, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.board.SignUp(ctx, name, email, secret)
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				printUser(cmd, "Signed up as", user)
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			secret, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.board.LogIn(ctx, email, secret)
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				printUser(cmd, "Logged in as", user)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := persistWarning(cmd, a.board.LogOut(ctx)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.board.CurrentUser()
				if err != nil {
					return err
				}
				printUser(cmd, "Signed in as", user)
				return nil
			})
		},
	}
}

func printUser(cmd *cobra.Command, label string, u models.User) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s <%s>\n", label, u.Name, u.Email)
	fmt.Fprintf(out, "  id:     %s\n", u.ID)
	fmt.Fprintf(out, "  avatar: %s\n", u.AvatarURL)
}
