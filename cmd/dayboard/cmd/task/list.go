package task

import (
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/render"
	"dayboard/internal/domain/record"
)

var (
	listSearch string
	listFormat string
	listOpen   bool
)

var ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, newest first",
	Long: `List tasks, newest first.

--search keeps tasks whose title or category contains the term, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := render.ValidateFormat(listFormat); err != nil {
			return err
		}
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}

		tasks := scope.Tasks.Filter(listSearch)
		if listOpen {
			pending := tasks[:0]
			for _, t := range tasks {
				if !t.IsComplete {
					pending = append(pending, t)
				}
			}
			tasks = pending
		}

		if listFormat == render.FormatJSON {
			if tasks == nil {
				tasks = []record.Task{}
			}
			return render.JSON(env.Out, tasks)
		}
		render.Tasks(env.Out, tasks, time.Now())
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by title or category")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", render.FormatTable, "output format (table, json)")
	ListCmd.Flags().BoolVar(&listOpen, "open", false, "only tasks that are not done")
}
