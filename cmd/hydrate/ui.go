// ABOUTME: CLI command that launches the interactive terminal UI.
// ABOUTME: Runs the bubbletea program against the open preference store.
package main

import (
	"github.com/harperreed/hydrate/internal/ui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Open the interactive tracker",
	Long: `Open the interactive tracker.

First launch asks for a daily goal. After that the main screen shows
today's intake with a +250 ml button, a 7-day chart, and settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(cmd.Context(), tr)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
