package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/record"
)

var (
	addCategory string
	addDue      string
)

var AddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task. Words after "add" form the title.

Tasks without --category are filed under "General". --due takes YYYY-MM-DD.`,
	Example: `  dayboard task add Pay rent --category Home --due 2025-04-01`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := parseDue(addDue)
		if err != nil {
			return err
		}
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		task, err := scope.Tasks.Create(ctx, record.Task{
			Title:    strings.Join(args, " "),
			Category: addCategory,
			DueDate:  due,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Added task %s: %s\n", types.ShortID(task.ID), task.Title)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addCategory, "category", "c", "", "task category")
	AddCmd.Flags().StringVarP(&addDue, "due", "d", "", "due date (YYYY-MM-DD)")
}
