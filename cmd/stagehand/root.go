package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/radiofm/stagehand"
	"github.com/radiofm/stagehand/internal/config"
	"github.com/radiofm/stagehand/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Stagehand bootstraps the Radio FM deployment",
	Long: `Stagehand prepares the deployment environment (audio dependency,
credentials) and hands control to the application process in server or
worker mode.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the deployment")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default <dir>/"+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
}

// newLogger builds the process logger from flags, with the environment
// as fallback for the level.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	jsonLogs, _ := cmd.Flags().GetBool("json")
	return logging.New(logging.ParseLevel(level), jsonLogs)
}

// bootOptions translates the persistent flags shared by every command
// into Bootstrap options.
func bootOptions(cmd *cobra.Command, logger *slog.Logger) []stagehand.Option {
	opts := []stagehand.Option{stagehand.WithLogger(logger)}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, stagehand.WithConfigFile(path))
	}
	return opts
}
