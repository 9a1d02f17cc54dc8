// ABOUTME: Tests for the terminal UI model's screens and key handling.
// ABOUTME: Drives Update with key messages and runs write commands synchronously.
package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/prefs"
	"github.com/harperreed/hydrate/internal/storage"
	"github.com/harperreed/hydrate/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setupModel(t *testing.T, onboarded bool) (Model, *tracker.Tracker, *testClock) {
	t.Helper()

	repo, err := storage.OpenBadgerInMemory()
	require.NoError(t, err)
	store, err := prefs.Open(repo)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: time.Date(2025, time.January, 29, 10, 0, 0, 0, time.UTC)}
	tr := tracker.New(store, tracker.WithClock(clock.Now))
	if onboarded {
		require.NoError(t, tr.CompleteOnboarding(context.Background(), 2000))
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewModel(ctx, tr), tr, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to m and, when a write command comes back, runs it and
// feeds its result too.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m
	}
	if result, ok := runCmd(cmd).(writeMsg); ok {
		next, _ = m.Update(result)
		m = next.(Model)
	}
	return m
}

// runCmd runs cmd unless it would block, such as a blink or tick.
func runCmd(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func TestStartScreen(t *testing.T) {
	m, _, _ := setupModel(t, false)
	assert.Equal(t, ScreenOnboarding, m.Screen())

	m, _, _ = setupModel(t, true)
	assert.Equal(t, ScreenMain, m.Screen())
}

func TestOnboardingCompletes(t *testing.T) {
	m, tr, _ := setupModel(t, false)
	assert.Contains(t, m.View(), "Welcome to Hydrate!")
	assert.Equal(t, "2000", m.goalInput.Value())

	m = send(t, m, runes("5"))
	assert.Equal(t, 20005, m.onboardGoal)

	for range "20005" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	assert.Equal(t, "", m.goalInput.Value())
	assert.Equal(t, 20005, m.onboardGoal, "empty input keeps the last valid goal")

	m = send(t, m, runes("2500"))
	assert.Equal(t, 2500, m.onboardGoal)

	m = send(t, m, runes("x"))
	assert.Equal(t, "2500x", m.goalInput.Value())
	assert.Equal(t, 2500, m.onboardGoal, "non-numeric input keeps the last valid goal")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenMain, m.Screen())
	assert.True(t, tr.IsOnboarded())
	assert.Equal(t, 2500, tr.DailyGoal())
}

func TestOnboardingDisabledForNonPositiveGoal(t *testing.T) {
	m, tr, _ := setupModel(t, false)

	m.goalInput.SetValue("")
	m = send(t, m, runes("0"))
	assert.Equal(t, 0, m.onboardGoal)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, ScreenOnboarding, next.(Model).Screen())
	assert.False(t, tr.IsOnboarded())
}

func TestMainAddsIntake(t *testing.T) {
	m, tr, _ := setupModel(t, true)

	m = send(t, m, runes("a"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, runes("a"))

	assert.Equal(t, 750, tr.TodayIntake())
	assert.Equal(t, 750, m.status.Today)
	assert.Contains(t, m.View(), "750 ml / 2,000 ml")
	assert.Contains(t, m.View(), "38%")
}

func TestMainToggleChart(t *testing.T) {
	m, _, _ := setupModel(t, true)
	assert.NotContains(t, m.View(), "Last 7 Days")
	assert.Contains(t, m.View(), "Show Progress Chart")

	m = send(t, m, runes("c"))
	view := m.View()
	assert.Contains(t, view, "Last 7 Days")
	assert.Contains(t, view, "Hide Progress Chart")
	assert.Contains(t, view, "THU")
	assert.Contains(t, view, "WED")

	m = send(t, m, runes("c"))
	assert.NotContains(t, m.View(), "Last 7 Days")
}

func TestMainQuit(t *testing.T) {
	m, _, _ := setupModel(t, true)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSettingsSaveGoal(t *testing.T) {
	m, tr, _ := setupModel(t, true)

	m = send(t, m, runes("s"))
	require.Equal(t, ScreenSettings, m.Screen())
	assert.Equal(t, "2000", m.settingsInput.Value())

	m.settingsInput.SetValue("abc")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "save is disabled for non-numeric input")
	m = next.(Model)

	m.settingsInput.SetValue("-5")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "save is disabled for non-positive input")

	m.settingsInput.SetValue("3000")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 3000, tr.DailyGoal())
	assert.Equal(t, ScreenSettings, m.Screen())
	assert.Contains(t, m.View(), "Daily goal saved: 3,000 ml")
}

func TestSettingsResetOnboardingGoesBack(t *testing.T) {
	m, tr, _ := setupModel(t, true)

	m = send(t, m, runes("s"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.False(t, tr.IsOnboarded())
	assert.Equal(t, ScreenMain, m.Screen())
}

func TestSettingsBack(t *testing.T) {
	m, _, _ := setupModel(t, true)

	m = send(t, m, runes("s"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenMain, m.Screen())
}

func TestTickRollsOverWithoutWrite(t *testing.T) {
	m, tr, clock := setupModel(t, true)

	m = send(t, m, runes("a"))
	require.Equal(t, 250, m.status.Today)
	version := tr.Store().Data().Version()

	clock.now = clock.now.AddDate(0, 0, 1)
	next, cmd := m.Update(tickMsg(clock.now))
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, 0, m.status.Today)
	assert.Equal(t, 250, m.status.Week[5].Amount)
	assert.Equal(t, version, tr.Store().Data().Version())
}

func TestStatusMessageUpdatesView(t *testing.T) {
	m, _, _ := setupModel(t, true)

	s := m.status
	s.Today = 1200
	next, cmd := m.Update(statusMsg(s))
	m = next.(Model)

	assert.NotNil(t, cmd, "keeps listening for updates")
	assert.Contains(t, m.View(), "1,200 ml / 2,000 ml")
}

func TestBar(t *testing.T) {
	tests := []struct {
		fraction float64
		width    int
		want     string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{1.7, 4, "████"},
		{-1, 4, "░░░░"},
		{0.5, 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bar(tt.fraction, tt.width), "Bar(%v, %d)", tt.fraction, tt.width)
	}
}

func TestWeekChart(t *testing.T) {
	day := time.Date(2025, time.January, 27, 0, 0, 0, 0, time.UTC)
	rows := WeekChart([]models.DayIntake{
		{Date: day, Label: "MON", Amount: 1000},
		{Date: day.AddDate(0, 0, 1), Label: "TUE", Amount: 0},
	}, 2000, 4)

	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "MON")
	assert.Contains(t, rows[0], "1,000 ml")
	assert.Contains(t, rows[0], "██░░")
	assert.Contains(t, rows[1], "░░░░")
}
