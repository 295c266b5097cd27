package task

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/record"
)

var (
	editTitle    string
	editCategory string
	editDue      string
	editClearDue bool
)

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task's title, category or due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := editPatch(cmd)
		if err != nil {
			return err
		}
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

		task, err := scope.Tasks.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Updated task %s: %s\n", types.ShortID(task.ID), task.Title)
		return nil
	},
}

func editPatch(cmd *cobra.Command) (record.TaskPatch, error) {
	var patch record.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &editTitle
	}
	if flags.Changed("category") {
		patch.Category = &editCategory
	}
	if flags.Changed("due") {
		due, err := parseDue(editDue)
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.ClearDue = true
		} else {
			patch.DueDate = due
		}
	}
	if editClearDue {
		patch.ClearDue = true
	}
	if patch.IsEmpty() {
		return patch, errors.New("nothing to change, pass --title, --category, --due or --clear-due")
	}
	return patch, patch.Validate()
}

func bindEditFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category, empty for General")
	cmd.Flags().StringVarP(&editDue, "due", "d", "", "new due date (YYYY-MM-DD), empty to clear")
	cmd.Flags().BoolVar(&editClearDue, "clear-due", false, "remove the due date")
}

func init() {
	bindEditFlags(EditCmd)
}
