package main

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radiofm/stagehand/internal/presentation/tui"
)

//go:embed runbook.md
var runbook string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the deployment runbook",
	Run: func(cmd *cobra.Command, args []string) {
		render := tui.NewRenderer()
		out, err := render(runbook)
		if err != nil {
			// Raw markdown beats nothing.
			fmt.Println(runbook)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
