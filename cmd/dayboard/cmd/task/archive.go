package task

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/internal/app/client"
	"dayboard/internal/domain/collection"
)

var archiveYes bool

var ArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Delete every completed task after one confirmation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		n, err := scope.Tasks.ArchiveCompleted(ctx, client.NewPrompter(archiveYes))
		if errors.Is(err, collection.ErrDeclined) {
			fmt.Fprintln(env.Out, "Nothing archived")
			return nil
		}
		if err != nil {
			return fmt.Errorf("archived %d tasks: %w", n, err)
		}
		fmt.Fprintf(env.Out, "Archived %d completed tasks\n", n)
		return nil
	},
}

func init() {
	ArchiveCmd.Flags().BoolVarP(&archiveYes, "yes", "y", false, "do not ask for confirmation")
}
