// ABOUTME: CLI commands for the daily goal and onboarding state.
// ABOUTME: Provides goal, onboard, and reset-onboarding.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/spf13/cobra"
)

var onboardGoal int

var goalCmd = &cobra.Command{
	Use:   "goal [ml]",
	Short: "Show or set the daily goal",
	Long: `Show the daily goal, or set it when an amount is given.

EXAMPLES:

  hydrate goal           # show current goal
  hydrate goal 2500      # set goal to 2,500 ml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Printf("Daily goal: %s\n", formatML(tr.DailyGoal()))
			return nil
		}

		goal, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		if err := tr.SetDailyGoal(cmd.Context(), goal); err != nil {
			return fmt.Errorf("failed to set goal: %w", err)
		}
		color.Green("✓ Daily goal saved: %s", formatML(goal))
		return nil
	},
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Set the daily goal and finish onboarding",
	Long: `Set the daily goal and mark onboarding complete in one step.

The interactive UI skips its welcome screen once this has run.

EXAMPLES:

  hydrate onboard                # use the default 2,000 ml
  hydrate onboard --goal 2500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if onboardGoal <= 0 {
			return fmt.Errorf("invalid goal: %d (must be positive)", onboardGoal)
		}
		if err := tr.CompleteOnboarding(cmd.Context(), onboardGoal); err != nil {
			return fmt.Errorf("failed to complete onboarding: %w", err)
		}
		color.Green("✓ Welcome to Hydrate! Daily goal: %s", formatML(onboardGoal))
		return nil
	},
}

var resetOnboardingCmd = &cobra.Command{
	Use:   "reset-onboarding",
	Short: "Show the welcome screen again next launch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.ResetOnboarding(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset onboarding: %w", err)
		}
		color.Green("✓ Onboarding reset")
		return nil
	},
}

func init() {
	onboardCmd.Flags().IntVar(&onboardGoal, "goal", models.DefaultDailyGoal, "daily goal in ml")

	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(resetOnboardingCmd)
}
