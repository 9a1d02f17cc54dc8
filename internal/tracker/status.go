// ABOUTME: Derived status snapshot and its live stream.
// ABOUTME: Every committed store update re-derives today, goal, progress, and the week.
package tracker

import (
	"context"
	"time"

	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/prefs"
)

// Status is everything a screen needs to render.
type Status struct {
	Date      time.Time          `json:"date"`
	Goal      int                `json:"goal"`
	Today     int                `json:"today"`
	Remaining int                `json:"remaining"`
	Progress  float64            `json:"progress"`
	Onboarded bool               `json:"onboarded"`
	Week      []models.DayIntake `json:"week"`
}

// Status derives the current status.
func (t *Tracker) Status() Status {
	return t.statusOf(t.store.Data())
}

// Watch streams a fresh Status for the current snapshot and again after
// every committed update. The channel closes when ctx is done or the store
// closes.
func (t *Tracker) Watch(ctx context.Context) <-chan Status {
	return prefs.Map(ctx, t.store, t.statusOf)
}

// WatchTodayIntake streams today's total, skipping repeats.
func (t *Tracker) WatchTodayIntake(ctx context.Context) <-chan int {
	return prefs.Watch(ctx, t.store, func(p prefs.Preferences) int {
		return todayIntake(p, models.DateKeyOf(t.now()))
	})
}

func (t *Tracker) statusOf(p prefs.Preferences) Status {
	now := t.now()
	today := models.DateKeyOf(now)
	goal := dailyGoal(p)
	intake := todayIntake(p, today)

	remaining := goal - intake
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Date:      today.Time(now.Location()),
		Goal:      goal,
		Today:     intake,
		Remaining: remaining,
		Progress:  models.Fraction(intake, goal),
		Onboarded: prefs.GetOr(p, KeyOnboarded, false),
		Week:      lastDays(p, now, models.HistoryRetentionDays),
	}
}
