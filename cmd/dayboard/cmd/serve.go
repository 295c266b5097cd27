package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/view/api"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the view API for the signed-in session",
	Long: `Serve the JSON view API and its change stream for browser or editor views.

Requests authenticate with the current session's access token as a bearer
token. The server follows sign-ins and sign-outs, including those made by other
dayboard commands, until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := types.FromContext(ctx)
		if err != nil {
			return err
		}
		b, err := env.Backend(ctx)
		if err != nil {
			return err
		}
		app, err := env.App(ctx)
		if err != nil {
			return err
		}

		if _, err := env.Scope(ctx); errors.Is(err, types.ErrNotSignedIn) {
			env.Log.Info("nobody is signed in, waiting for a sign-in")
		} else if err != nil {
			return err
		}

		log := env.Log.With("component", "view_server")
		addr := env.Config.HTTP.Address
		if serveAddress != "" {
			addr = serveAddress
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.New(app, b.Auth, env.Log, api.Options{}),
			ReadHeaderTimeout: readHeaderTimeout,
		}

		go func() {
			if err := app.Run(ctx); err != nil {
				log.Error("session follower stopped", "error", err)
			}
		}()

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", "address", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address, defaults to HTTP_ADDRESS")
}
