package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/spf13/cobra"
)

const defaultEnvFile = ".env"

func newRootCommand() *cobra.Command {
	var envFileFlag string

	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "newsctl",
		Short:         "News aggregator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFileFlag); err != nil {
				return err
			}
			slog.SetLogLoggerLevel(env.LogLevel())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to a .env file (default .env, optional)")

	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newProvidersCommand(ctx))

	return rootCmd
}

// loadEnvFile fails only when the file was asked for explicitly.
func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}
	return env.LoadDotEnv(os.Getenv("APP_ENV"), path)
}
