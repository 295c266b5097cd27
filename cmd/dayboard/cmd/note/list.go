package note

import (
	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/render"
	"dayboard/internal/domain/record"
)

var (
	listSearch string
	listFormat string
)

var ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := render.ValidateFormat(listFormat); err != nil {
			return err
		}
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}

		notes := scope.Notes.Filter(listSearch)
		if listFormat == render.FormatJSON {
			if notes == nil {
				notes = []record.Note{}
			}
			return render.JSON(env.Out, notes)
		}
		render.Notes(env.Out, notes)
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by title or content")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", render.FormatTable, "output format (table, json)")
}
