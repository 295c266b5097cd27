package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
)

var DoneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompletion(cmd, args, true)
	},
}

var UndoCmd = &cobra.Command{
	Use:   "undo <id>...",
	Short: "Mark tasks as not done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompletion(cmd, args, false)
	},
}

func setCompletion(cmd *cobra.Command, refs []string, complete bool) error {
	env, scope, err := open(cmd)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := resolve(scope, ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	state := "done"
	if !complete {
		state = "open"
	}
	for _, id := range ids {
		task, err := scope.Tasks.SetCompletion(ctx, id, complete)
		if err != nil {
			return fmt.Errorf("task %s: %w", types.ShortID(id), err)
		}
		fmt.Fprintf(env.Out, "%s %s: %s\n", state, types.ShortID(task.ID), task.Title)
	}
	return nil
}
