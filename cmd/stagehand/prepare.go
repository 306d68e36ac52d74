package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/radiofm/stagehand"
	"github.com/radiofm/stagehand/internal/prepare"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the preparation sequence without launching anything",
	Long: `Runs dependency installation and credential staging, prints the
outcome, and exits. Useful for deployment debugging: the exit code is
zero even when steps degraded, because that is the launch contract too.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		logger := newLogger(cmd)

		boot, err := stagehand.New(dir, bootOptions(cmd, logger)...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		report := boot.Prepare(cmd.Context())
		printReport(report)
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func printReport(report prepare.Report) {
	fmt.Printf("dependency:  %s\n", report.Dependency)
	if report.FFmpegPath != "" {
		fmt.Printf("ffmpeg:      %s\n", report.FFmpegPath)
	}
	fmt.Printf("credentials: %s\n", report.Credentials)
	if report.CredentialPath != "" {
		fmt.Printf("staged at:   %s\n", report.CredentialPath)
	}
	for _, w := range report.Warnings {
		fmt.Printf("warning:     %s\n", w)
	}
}
