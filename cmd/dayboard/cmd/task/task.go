package task

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/client"
	"dayboard/internal/domain/record"
)

// TaskCmd groups the task commands. Tasks are addressed by id or by any
// unique id prefix, as printed by "task list".
var TaskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage tasks",
}

func open(cmd *cobra.Command) (*types.Env, *client.Scope, error) {
	env, err := types.FromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	scope, err := env.Scope(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return env, scope, nil
}

func resolve(scope *client.Scope, ref string) (string, error) {
	tasks := scope.Tasks.Snapshot()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return types.ResolveID(ref, ids)
}

func parseDue(s string) (*record.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := record.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}
