package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/client"
)

const loginTimeout = 30 * time.Second

var (
	email         string
	passwordStdin bool
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in, creating the account if the email is new",
	Long: `Sign in with an email and a password.

An unknown email signs up a new account with that password. The password is
read from the terminal without echo, or from stdin with --password-stdin.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		if email == "" {
			fmt.Fprint(env.Err, "Email: ")
			if email, err = readLine(in); err != nil {
				return fmt.Errorf("read email: %w", err)
			}
		}

		var password string
		if passwordStdin {
			password, err = readLine(in)
		} else {
			password, err = client.ReadPassword(env.Err, "Password: ")
		}
		if err != nil {
			return err
		}

		app, err := env.App(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
		defer cancel()

		scope, err := app.Login(ctx, email, password)
		if scope == nil {
			return fmt.Errorf("sign in: %w", err)
		}
		if err != nil {
			env.Log.Warn("signed in but failed to load collections", "error", err)
		}

		fmt.Fprintf(env.Out, "Signed in as %s (%d tasks, %d notes)\n", scope.Session.Email, scope.Tasks.Len(), scope.Notes.Len())
		return nil
	},
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	LoginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
}
