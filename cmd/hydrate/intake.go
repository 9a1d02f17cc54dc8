// ABOUTME: CLI commands for logging water and viewing progress.
// ABOUTME: Provides add, status, week, and reset-today.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/spf13/cobra"
)

var statusJSON bool

var addCmd = &cobra.Command{
	Use:     "add [amount]",
	Aliases: []string{"a", "drink"},
	Short:   "Log water intake",
	Long: `Log water you just drank. Defaults to one 250 ml glass.

EXAMPLES:

  hydrate add            # +250 ml
  hydrate add 500        # +500 ml
  hydrate add 330ml      # units are optional`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := models.DefaultIncrement
		if len(args) == 1 {
			n, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			amount = n
		}

		total, err := tr.AddIntake(cmd.Context(), amount)
		if err != nil {
			return fmt.Errorf("failed to add intake: %w", err)
		}

		goal := tr.DailyGoal()
		color.Green("✓ Added %s", formatML(amount))
		fmt.Printf("  Today: %s / %s\n", formatML(total), formatML(goal))
		fmt.Printf("  %s\n", progressLine(models.Fraction(total, goal), statusBarWidth))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st", "today"},
	Short:   "Show today's progress",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := tr.Status()
		if statusJSON {
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode status: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if !s.Onboarded {
			color.Yellow("No daily goal set yet. Run 'hydrate onboard' to pick one.")
			fmt.Println()
		}
		printStatus(s)
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:     "week",
	Aliases: []string{"w", "chart"},
	Short:   "Show the last 7 days",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := tr.Last7Days()
		goal := tr.DailyGoal()

		fmt.Println("Last 7 Days")
		fmt.Println()
		for _, line := range weekLines(days, goal) {
			fmt.Println(line)
		}

		total, met := 0, 0
		for _, d := range days {
			total += d.Amount
			if d.Amount >= goal {
				met++
			}
		}
		faint := color.New(color.Faint)
		fmt.Println()
		fmt.Printf("Total: %s  Average: %s  Goal met: %d/%d days\n",
			formatML(total), formatML(total/len(days)), met, len(days))
		faint.Printf("Goal: %s per day\n", formatML(goal))
		return nil
	},
}

var resetTodayCmd = &cobra.Command{
	Use:   "reset-today",
	Short: "Set today's intake back to zero",
	Long: `Set today's intake back to zero.

The 7-day history is left alone, so the chart still shows what was
logged earlier today.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.ResetTodayIntake(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset today: %w", err)
		}
		color.Green("✓ Today's intake reset to 0 %s", models.Unit)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(resetTodayCmd)
}
