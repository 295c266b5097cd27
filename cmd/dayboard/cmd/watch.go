package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/render"
	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/collection"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to your tasks and notes as they happen",
	Long: `Print one line per change to your tasks and notes, including changes
made by other clients, until interrupted or signed out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := types.FromContext(ctx)
		if err != nil {
			return err
		}
		scope, err := env.Scope(ctx)
		if err != nil {
			return err
		}
		app, err := env.App(ctx)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := app.Run(ctx); err != nil {
				env.Log.Error("session follower stopped", "error", err)
			}
		}()

		fmt.Fprintf(env.Err, "Watching %d tasks and %d notes of %s, press Ctrl+C to stop\n",
			scope.Tasks.Len(), scope.Notes.Len(), scope.Session.Email)

		for n := range scope.Watch(ctx) {
			render.Change(env.Out, n, time.Now())
			if n.Kind == collection.Cleared {
				fmt.Fprintln(env.Err, "Session ended")
				return nil
			}
		}
		return nil
	},
}
