package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/radiofm/stagehand"
	"github.com/radiofm/stagehand/internal/prepare"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Prepare the environment and run the standalone bot process",
	Long: `Runs the preparation sequence, then transfers control to the worker
process. No network port is bound; the bot talks outbound only.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		logger := newLogger(cmd)

		boot, err := stagehand.New(dir, bootOptions(cmd, logger)...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		report := boot.Prepare(cmd.Context())
		logReport(logger, report)

		code, err := boot.Launch(cmd.Context(), stagehand.ModeWorker)
		if err != nil {
			logger.Error("launch failed", "error", err)
			os.Exit(1)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// logReport surfaces the preparation outcome. Nothing here is fatal;
// the sequence already degraded every failure to a warning.
func logReport(logger *slog.Logger, report prepare.Report) {
	logger.Info("preparation finished",
		"dependency", string(report.Dependency),
		"ffmpeg", report.FFmpegPath,
		"credentials", string(report.Credentials),
	)
	for _, w := range report.Warnings {
		logger.Warn("preparation warning", "detail", w)
	}
}
