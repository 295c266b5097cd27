package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/config"
	"dayboard/internal/utils/logger"
)

var (
	debug bool
	env   *types.Env
)

var rootCmd = &cobra.Command{
	Use:   "dayboard",
	Short: "dayboard - personal tasks, notes and a dashboard",
	Long: `dayboard keeps your tasks and notes in a database shared by every
client you run and shows what is due on a dashboard.

Configuration comes from .env, the environment and config.yaml in the config
directory (~/.dayboard by default). Sign in with "dayboard auth login".`,
	PersistentPreRunE: setupEnv,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if env != nil {
		if cerr := env.Close(); cerr != nil {
			env.Log.Error("failed to close backend", "error", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupEnv(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logger.WithLevel(cfg.Env, level)

	env = types.NewEnv(cfg, log)
	env.Out = cmd.OutOrStdout()
	env.Err = cmd.ErrOrStderr()
	cmd.SetContext(types.WithEnv(cmd.Context(), env))

	log.Debug("configuration loaded", "backend", cfg.Backend, "changefeed", cfg.Changefeed, "config_dir", cfg.ConfigDir)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages")
}
