// ABOUTME: Tests for intake rules, rollover, history retention, and status.
// ABOUTME: Uses an in-memory Badger store and a controllable clock.
package tracker

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/prefs"
	"github.com/harperreed/hydrate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// Wednesday 29 January 2025, mid morning.
func startTime() time.Time {
	return time.Date(2025, time.January, 29, 9, 30, 0, 0, time.UTC)
}

func setupTracker(t *testing.T, seed map[string]string) (*Tracker, *testClock) {
	t.Helper()

	repo, err := storage.OpenBadgerInMemory()
	require.NoError(t, err)
	if len(seed) > 0 {
		require.NoError(t, repo.Apply(storage.Changes{Set: seed}))
	}

	store, err := prefs.Open(repo)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: startTime()}
	return New(store, WithClock(clock.Now)), clock
}

func TestAddIntakeSameDaySums(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tr.AddIntake(ctx, 250)
		require.NoError(t, err)
	}

	assert.Equal(t, 750, tr.TodayIntake())
	assert.Equal(t, models.DefaultDailyGoal, tr.DailyGoal())
	assert.InDelta(t, 0.375, tr.Progress(), 1e-9)

	p := tr.Store().Data()
	assert.Equal(t, 20250129, prefs.GetOr(p, KeyLastLogDate, 0))
	assert.Equal(t, `{"20250129":750}`, prefs.GetOr(p, KeyIntakeHistory, ""))
}

func TestAddIntakeReturnsNewTotal(t *testing.T) {
	tr, _ := setupTracker(t, nil)

	total, err := tr.AddIntake(context.Background(), 300)
	require.NoError(t, err)
	assert.Equal(t, 300, total)

	total, err = tr.AddIntake(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, 500, total)
}

func TestAddIntakeNewDayRestartsTotal(t *testing.T) {
	tr, clock := setupTracker(t, nil)
	ctx := context.Background()

	_, err := tr.AddIntake(ctx, 1800)
	require.NoError(t, err)

	clock.AddDays(1)
	total, err := tr.AddIntake(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, total)

	h, ok := models.ParseHistory(prefs.GetOr(tr.Store().Data(), KeyIntakeHistory, ""))
	require.True(t, ok)
	assert.Equal(t, models.History{"20250129": 1800, "20250130": 250}, h)
}

func TestRolloverOnReadWithoutWrite(t *testing.T) {
	tr, clock := setupTracker(t, nil)

	_, err := tr.AddIntake(context.Background(), 1800)
	require.NoError(t, err)
	before := tr.Store().Data().Version()

	clock.AddDays(1)
	assert.Equal(t, 0, tr.TodayIntake())
	assert.Equal(t, 0.0, tr.Progress())
	assert.Equal(t, before, tr.Store().Data().Version())

	// Yesterday is still in the week view.
	week := tr.Last7Days()
	assert.Equal(t, 1800, week[5].Amount)
	assert.Equal(t, 0, week[6].Amount)
}

func TestMissingLastLogDateCountsAsToday(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{"today_intake": "500"})

	assert.Equal(t, 500, tr.TodayIntake())

	total, err := tr.AddIntake(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, 750, total)
}

func TestClockSkewReadsAsMismatch(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{
		"today_intake":  "900",
		"last_log_date": "20250205",
	})

	assert.Equal(t, 0, tr.TodayIntake())

	total, err := tr.AddIntake(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 100, total)
}

func TestAddIntakeRejectsNonPositive(t *testing.T) {
	tr, _ := setupTracker(t, nil)

	for _, amount := range []int{0, -250} {
		_, err := tr.AddIntake(context.Background(), amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Equal(t, 0, tr.Store().Data().Len())
}

func TestHistoryKeepsSevenMostRecentDays(t *testing.T) {
	tr, clock := setupTracker(t, nil)
	ctx := context.Background()

	start := clock.Now()
	for i := 0; i < 10; i++ {
		_, err := tr.AddIntake(ctx, 100+i)
		require.NoError(t, err)

		h, ok := models.ParseHistory(prefs.GetOr(tr.Store().Data(), KeyIntakeHistory, ""))
		require.True(t, ok)
		assert.LessOrEqual(t, len(h), models.HistoryRetentionDays)
		clock.AddDays(1)
	}

	h, _ := models.ParseHistory(prefs.GetOr(tr.Store().Data(), KeyIntakeHistory, ""))
	require.Len(t, h, 7)
	for i := 3; i < 10; i++ {
		key := models.DateKeyOf(start.AddDate(0, 0, i)).String()
		assert.Equal(t, 100+i, h[key], "day %s", key)
	}
	_, kept := h[models.DateKeyOf(start.AddDate(0, 0, 2)).String()]
	assert.False(t, kept)
}

func TestHistoryRetentionAcrossGaps(t *testing.T) {
	seed := models.History{}
	for _, d := range []string{"20241201", "20241215", "20250101", "20250110", "20250115", "20250120", "20250125"} {
		seed[d] = 1000
	}
	tr, _ := setupTracker(t, map[string]string{"intake_history": seed.Encode()})

	_, err := tr.AddIntake(context.Background(), 250)
	require.NoError(t, err)

	h, _ := models.ParseHistory(prefs.GetOr(tr.Store().Data(), KeyIntakeHistory, ""))
	require.Len(t, h, 7)
	assert.NotContains(t, h, "20241201")
	assert.Equal(t, 250, h["20250129"])
}

func TestMalformedHistoryIsReplaced(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{"intake_history": "not json"})

	week := tr.Last7Days()
	require.Len(t, week, 7)
	for _, d := range week {
		assert.Equal(t, 0, d.Amount)
	}

	_, err := tr.AddIntake(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, `{"20250129":250}`, prefs.GetOr(tr.Store().Data(), KeyIntakeHistory, ""))
}

func TestLast7DaysShape(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{
		"intake_history": `{"20250123":400,"20250127":1200,"20250129":250,"20250101":999}`,
	})

	week := tr.Last7Days()
	require.Len(t, week, 7)

	labels := make([]string, 0, 7)
	amounts := make([]int, 0, 7)
	for _, d := range week {
		labels = append(labels, d.Label)
		amounts = append(amounts, d.Amount)
	}
	assert.Equal(t, []string{"THU", "FRI", "SAT", "SUN", "MON", "TUE", "WED"}, labels)
	assert.Equal(t, []int{400, 0, 0, 0, 1200, 0, 250}, amounts)

	for i := 1; i < len(week); i++ {
		assert.True(t, week[i].Date.After(week[i-1].Date))
	}
	assert.Equal(t, time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC), week[6].Date)
}

func TestLast7DaysEmptyStore(t *testing.T) {
	tr, _ := setupTracker(t, nil)

	week := tr.Last7Days()
	require.Len(t, week, 7)
	for _, d := range week {
		assert.Equal(t, 0, d.Amount)
	}
}

func TestDailyGoal(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx := context.Background()

	assert.Equal(t, 2000, tr.DailyGoal())

	require.NoError(t, tr.SetDailyGoal(ctx, 2500))
	assert.Equal(t, 2500, tr.DailyGoal())

	assert.ErrorIs(t, tr.SetDailyGoal(ctx, 0), ErrInvalidGoal)
	assert.ErrorIs(t, tr.SetDailyGoal(ctx, -5), ErrInvalidGoal)
	assert.Equal(t, 2500, tr.DailyGoal())
}

func TestOnboardingFlow(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx := context.Background()

	assert.False(t, tr.IsOnboarded())

	require.NoError(t, tr.CompleteOnboarding(ctx, 3000))
	assert.True(t, tr.IsOnboarded())
	assert.Equal(t, 3000, tr.DailyGoal())

	require.NoError(t, tr.ResetOnboarding(ctx))
	assert.False(t, tr.IsOnboarded())
	assert.True(t, tr.Store().Data().Contains(KeyOnboarded.Name()))
	assert.Equal(t, 3000, tr.DailyGoal())

	assert.ErrorIs(t, tr.CompleteOnboarding(ctx, 0), ErrInvalidGoal)
	assert.False(t, tr.IsOnboarded())
}

func TestResetTodayIntake(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx := context.Background()

	_, err := tr.AddIntake(ctx, 750)
	require.NoError(t, err)
	require.NoError(t, tr.ResetTodayIntake(ctx))

	assert.Equal(t, 0, tr.TodayIntake())
	assert.Equal(t, 750, tr.Last7Days()[6].Amount)

	total, err := tr.AddIntake(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, total)
}

func TestProgressClamps(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{"daily_goal": "500"})

	_, err := tr.AddIntake(context.Background(), 750)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr.Progress())
	assert.Equal(t, 0, tr.Status().Remaining)
}

func TestStatus(t *testing.T) {
	tr, _ := setupTracker(t, map[string]string{"onboarded": "true"})

	_, err := tr.AddIntake(context.Background(), 500)
	require.NoError(t, err)

	s := tr.Status()
	assert.Equal(t, 500, s.Today)
	assert.Equal(t, 2000, s.Goal)
	assert.Equal(t, 1500, s.Remaining)
	assert.InDelta(t, 0.25, s.Progress, 1e-9)
	assert.True(t, s.Onboarded)
	assert.Len(t, s.Week, 7)
	assert.Equal(t, time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC), s.Date)
}

func TestWatchStreamsUpdates(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statuses := tr.Watch(ctx)
	first := <-statuses
	assert.Equal(t, 0, first.Today)

	_, err := tr.AddIntake(ctx, 250)
	require.NoError(t, err)

	select {
	case s := <-statuses:
		assert.Equal(t, 250, s.Today)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status")
	}

	cancel()
	for range statuses {
	}
}

func TestWatchTodayIntake(t *testing.T) {
	tr, _ := setupTracker(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	totals := tr.WatchTodayIntake(ctx)
	assert.Equal(t, 0, <-totals)

	require.NoError(t, tr.SetDailyGoal(ctx, 1000))
	for i := 1; i <= 2; i++ {
		_, err := tr.AddIntake(ctx, 250)
		require.NoError(t, err)
	}

	// The goal change does not alter today's total so it is skipped.
	for _, want := range []int{250, 500} {
		select {
		case got := <-totals:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for total " + strconv.Itoa(want))
		}
	}
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	tr, _ := setupTracker(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.AddIntake(context.Background(), 50)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, tr.TodayIntake())
	assert.Equal(t, 1000, tr.Last7Days()[6].Amount)
}
