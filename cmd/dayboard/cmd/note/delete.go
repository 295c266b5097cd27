package note

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/client"
	"dayboard/internal/domain/collection"
)

var deleteYes bool

var DeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note after confirmation",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}
		id, err := resolve(scope, args[0])
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		err = scope.Notes.Delete(ctx, id, client.NewPrompter(deleteYes))
		if errors.Is(err, collection.ErrDeclined) {
			fmt.Fprintln(env.Out, "Nothing deleted")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Deleted note %s\n", types.ShortID(id))
		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
}
