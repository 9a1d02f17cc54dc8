// ABOUTME: CLI commands for exporting and importing hydrate data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/hydrate/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export hydrate data",
	Long: `Export hydrate data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Today's progress and the last 7 days as a table

EXAMPLES:

  hydrate export json                  # Export as JSON
  hydrate export json -o backup.json   # Save to file
  hydrate export markdown              # Share your week`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = tr.ExportJSON()
		case "yaml", "yml":
			data, err = tr.ExportYAML()
		case "markdown", "md":
			data = []byte(tr.ExportMarkdown())
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(strings.TrimRight(string(data), "\n"))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import hydrate data from a JSON or YAML export",
	Long: `Import hydrate data from a file written by 'hydrate export'.

The format comes from the file extension (.json, .yaml, .yml) unless
--format is given. Imported values replace the goal, onboarding state,
today's intake, and history in one write.

EXAMPLES:

  hydrate import backup.json
  hydrate import backup.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = formatFromPath(filename)
		}

		data, err := tracker.ParseExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := tr.Import(cmd.Context(), data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  Goal: %s  Today: %s  History days: %d\n",
			formatML(data.DailyGoal), formatML(tr.TodayIntake()), len(data.History))
		return nil
	},
}

// formatFromPath picks an import format by extension, defaulting to json.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format: json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
