// ABOUTME: Water intake rules over the preference store.
// ABOUTME: Handles daily rollover, bounded 7-day history, goals, and onboarding state.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/prefs"
)

var (
	// ErrInvalidAmount is returned when an intake amount is not positive.
	ErrInvalidAmount = errors.New("intake amount must be positive")

	// ErrInvalidGoal is returned when a daily goal is not positive.
	ErrInvalidGoal = errors.New("daily goal must be positive")

	// ErrNoImportData is returned when Import is given nothing to import.
	ErrNoImportData = errors.New("no import data")
)

// Tracker applies the intake rules to a preference store.
type Tracker struct {
	store  *prefs.Store
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger used for warnings about stored data.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Tracker bound to store.
func New(store *prefs.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the underlying preference store.
func (t *Tracker) Store() *prefs.Store {
	return t.store
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// AddIntake logs amount ml for today and returns the new daily total.
//
// The running total restarts from zero when the last logged day is not
// today. A store that has never logged anything counts as already on today.
// The history gains amount under today's key and keeps only the most recent
// HistoryRetentionDays days. Everything is written in one edit.
func (t *Tracker) AddIntake(ctx context.Context, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	today := models.DateKeyOf(t.now())
	var total int

	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		last := models.DateKey(prefs.EditGetOr(m, KeyLastLogDate, int(today)))
		prev := 0
		if last == today {
			prev = prefs.EditGetOr(m, KeyTodayIntake, 0)
		}
		total = prev + amount

		raw := prefs.EditGetOr(m, KeyIntakeHistory, models.EmptyHistory)
		history, ok := models.ParseHistory(raw)
		if !ok {
			t.logger.Warn("stored intake history is malformed, starting fresh", "value", raw)
		}
		history.Add(today.String(), amount)
		history.Trim(models.HistoryRetentionDays)

		prefs.Set(m, KeyTodayIntake, total)
		prefs.Set(m, KeyLastLogDate, int(today))
		prefs.Set(m, KeyIntakeHistory, history.Encode())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add intake: %w", err)
	}

	t.logger.Debug("intake added", "amount", amount, "total", total, "date", today)
	return total, nil
}

// TodayIntake returns today's total, 0 when the last logged day is not today.
func (t *Tracker) TodayIntake() int {
	return todayIntake(t.store.Data(), models.DateKeyOf(t.now()))
}

// Last7Days returns seven entries ending today, oldest first.
func (t *Tracker) Last7Days() []models.DayIntake {
	return lastDays(t.store.Data(), t.now(), models.HistoryRetentionDays)
}

// DailyGoal returns the goal in ml.
func (t *Tracker) DailyGoal() int {
	return dailyGoal(t.store.Data())
}

// SetDailyGoal stores a new goal.
func (t *Tracker) SetDailyGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGoal, goal)
	}
	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		prefs.Set(m, KeyDailyGoal, goal)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set daily goal: %w", err)
	}
	return nil
}

// IsOnboarded reports whether onboarding has been completed.
func (t *Tracker) IsOnboarded() bool {
	return prefs.GetOr(t.store.Data(), KeyOnboarded, false)
}

// SetOnboarded stores the onboarding flag.
func (t *Tracker) SetOnboarded(ctx context.Context, done bool) error {
	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		prefs.Set(m, KeyOnboarded, done)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set onboarded: %w", err)
	}
	return nil
}

// CompleteOnboarding stores the chosen goal and marks onboarding done.
func (t *Tracker) CompleteOnboarding(ctx context.Context, goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGoal, goal)
	}
	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		prefs.Set(m, KeyDailyGoal, goal)
		prefs.Set(m, KeyOnboarded, true)
		return nil
	})
	if err != nil {
		return fmt.Errorf("complete onboarding: %w", err)
	}
	return nil
}

// ResetOnboarding clears the onboarding flag by writing false.
func (t *Tracker) ResetOnboarding(ctx context.Context) error {
	return t.SetOnboarded(ctx, false)
}

// ResetTodayIntake sets today's running total to zero. History is kept.
func (t *Tracker) ResetTodayIntake(ctx context.Context) error {
	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		prefs.Set(m, KeyTodayIntake, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset today intake: %w", err)
	}
	return nil
}

// Progress returns today's intake over the goal, clamped to [0, 1].
func (t *Tracker) Progress() float64 {
	p := t.store.Data()
	return models.Fraction(todayIntake(p, models.DateKeyOf(t.now())), dailyGoal(p))
}

func dailyGoal(p prefs.Preferences) int {
	return prefs.GetOr(p, KeyDailyGoal, models.DefaultDailyGoal)
}

func todayIntake(p prefs.Preferences, today models.DateKey) int {
	last := models.DateKey(prefs.GetOr(p, KeyLastLogDate, int(today)))
	if last != today {
		return 0
	}
	return prefs.GetOr(p, KeyTodayIntake, 0)
}

func history(p prefs.Preferences) models.History {
	h, _ := models.ParseHistory(prefs.GetOr(p, KeyIntakeHistory, models.EmptyHistory))
	return h
}

// lastDays returns n entries ending on now's day, oldest first.
func lastDays(p prefs.Preferences, now time.Time, n int) []models.DayIntake {
	h := history(p)
	midnight := models.DateKeyOf(now).Time(now.Location())

	days := make([]models.DayIntake, 0, n)
	for i := 0; i < n; i++ {
		d := midnight.AddDate(0, 0, -(n - 1 - i))
		days = append(days, models.DayIntake{
			Date:   d,
			Label:  models.WeekdayLabel(d),
			Amount: h.Get(models.DateKeyOf(d).String()),
		})
	}
	return days
}
