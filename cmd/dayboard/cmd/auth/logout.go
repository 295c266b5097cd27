package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		app, err := env.App(cmd.Context())
		if err != nil {
			return err
		}
		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(env.Out, "Signed out")
		return nil
	},
}
