package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/client"
	"dayboard/internal/infrastructure/migration"
)

var (
	migrateDown bool
	migrateYes  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema migrations of the configured backend",
	Long: `Apply every pending migration. Other commands migrate on start, so this is
only needed to prepare a shared database ahead of time. --down reverts every
migration and drops all data.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := types.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		m := migration.NewMigration(env.Config, migration.DefaultEngine, env.Log)
		if migrateDown {
			ok, err := client.NewPrompter(migrateYes).Confirm(cmd.Context(), "Revert every migration and drop all data?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(env.Out, "Nothing reverted")
				return nil
			}
			if err := m.Down(); err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "Reverted the %s schema\n", env.Config.Backend)
			return nil
		}
		if err := m.Up(); err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "The %s schema is up to date\n", env.Config.Backend)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "revert every migration")
	migrateCmd.Flags().BoolVarP(&migrateYes, "yes", "y", false, "do not ask before reverting")
}
