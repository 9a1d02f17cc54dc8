// ABOUTME: Output and argument helpers shared by hydrate commands.
// ABOUTME: Formats ml amounts, progress bars, and the weekly chart for the terminal.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/tracker"
	"github.com/harperreed/hydrate/internal/ui"
)

const (
	statusBarWidth = 30
	weekBarWidth   = 24
)

// formatML renders an amount with thousands separators, e.g. "2,000 ml".
func formatML(n int) string {
	return humanize.Comma(int64(n)) + " " + models.Unit
}

// parseAmount parses a positive ml amount. A trailing "ml" is allowed.
func parseAmount(s string) (int, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, models.Unit))
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid amount: %s (must be positive)", s)
	}
	return n, nil
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// progressLine renders "███░░░ 38%".
func progressLine(fraction float64, width int) string {
	return color.CyanString(ui.Bar(fraction, width)) + fmt.Sprintf(" %.0f%%", fraction*100)
}

func printStatus(s tracker.Status) {
	faint := color.New(color.Faint)

	fmt.Printf("Today's Intake %s\n", faint.Sprintf("(%s)", s.Date.Format("Mon, Jan 2")))
	fmt.Printf("  %s / %s\n", color.New(color.Bold).Sprint(formatML(s.Today)), formatML(s.Goal))
	fmt.Printf("  %s\n", progressLine(s.Progress, statusBarWidth))
	if s.Remaining > 0 {
		fmt.Printf("  %s\n", faint.Sprintf("%s to go", formatML(s.Remaining)))
	} else {
		color.Green("  ✓ Goal reached!")
	}
}

// weekLines renders one row per day: label, bar, amount.
func weekLines(days []models.DayIntake, goal int) []string {
	lines := make([]string, 0, len(days))
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			padRight(d.Label, 4),
			color.CyanString(ui.Bar(models.Fraction(d.Amount, goal), weekBarWidth)),
			formatML(d.Amount)))
	}
	return lines
}
