package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		scope, err := env.Scope(cmd.Context())
		if errors.Is(err, types.ErrNotSignedIn) {
			fmt.Fprintln(env.Out, "Not signed in")
			return nil
		}
		if err != nil {
			return err
		}

		sess := scope.Session
		fmt.Fprintf(env.Out, "%s\nuser id:  %s\nexpires:  %s\n", sess.Email, sess.UserID, sess.ExpiresAt.Local().Format(time.DateTime))
		return nil
	},
}
