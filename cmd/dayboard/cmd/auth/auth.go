package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd groups the session commands.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and out",
	Long:  `Sign in, sign out and show the signed-in user. The session is kept in the config directory between runs.`,
}
