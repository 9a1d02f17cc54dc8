// ABOUTME: Persisted preference keys for water intake tracking.
// ABOUTME: Names match the stored key layout shared by every backend.
package tracker

import "github.com/harperreed/hydrate/internal/prefs"

var (
	// KeyOnboarded gates the first screen shown.
	KeyOnboarded = prefs.BoolKey("onboarded")

	// KeyDailyGoal is the goal in ml.
	KeyDailyGoal = prefs.IntKey("daily_goal")

	// KeyTodayIntake is the running total for KeyLastLogDate.
	KeyTodayIntake = prefs.IntKey("today_intake")

	// KeyLastLogDate is the YYYYMMDD day of the most recent addition.
	KeyLastLogDate = prefs.IntKey("last_log_date")

	// KeyIntakeHistory is a JSON object of YYYYMMDD to ml.
	KeyIntakeHistory = prefs.StringKey("intake_history")
)
