// ABOUTME: Bubbletea model for the onboarding, main, and settings screens.
// ABOUTME: Renders from the tracker's live status stream and writes through tea commands.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/tracker"
)

// Screen identifies which view is active.
type Screen int

const (
	ScreenOnboarding Screen = iota
	ScreenMain
	ScreenSettings
)

func (s Screen) String() string {
	switch s {
	case ScreenOnboarding:
		return "onboarding"
	case ScreenMain:
		return "main"
	case ScreenSettings:
		return "settings"
	}
	return "unknown"
}

// RolloverInterval is how often the status is re-derived without a write,
// so a new day shows up while the UI stays open.
const RolloverInterval = time.Minute

type statusMsg tracker.Status

type watchClosedMsg struct{}

type tickMsg time.Time

// writeMsg reports a finished write. next is the screen to show on success.
type writeMsg struct {
	err    error
	next   Screen
	notice string
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	updates <-chan tracker.Status

	screen    Screen
	status    tracker.Status
	showChart bool

	goalInput     textinput.Model
	onboardGoal   int
	settingsInput textinput.Model

	notice string
	err    error
	width  int
}

// NewModel builds the model and subscribes to status updates for the
// lifetime of ctx. The first screen is onboarding until the flag is set.
func NewModel(ctx context.Context, tr *tracker.Tracker) Model {
	status := tr.Status()

	goalInput := textinput.New()
	goalInput.Prompt = "> "
	goalInput.CharLimit = 6
	goalInput.SetValue(strconv.Itoa(models.DefaultDailyGoal))
	goalInput.CursorEnd()

	settingsInput := textinput.New()
	settingsInput.Prompt = "> "
	settingsInput.CharLimit = 6

	m := Model{
		ctx:           ctx,
		tracker:       tr,
		updates:       tr.Watch(ctx),
		status:        status,
		goalInput:     goalInput,
		onboardGoal:   models.DefaultDailyGoal,
		settingsInput: settingsInput,
		screen:        ScreenMain,
	}
	if !status.Onboarded {
		m.screen = ScreenOnboarding
		m.goalInput.Focus()
	}
	return m
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Init starts the status stream, the rollover tick, and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForStatus(m.updates), tickCmd(), textinput.Blink)
}

func waitForStatus(ch <-chan tracker.Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return statusMsg(s)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(RolloverInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages for every screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case statusMsg:
		m.status = tracker.Status(msg)
		return m, waitForStatus(m.updates)

	case watchClosedMsg:
		return m, nil

	case tickMsg:
		m.status = m.tracker.Status()
		return m, tickCmd()

	case writeMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.notice
		m.status = m.tracker.Status()
		return m, m.setScreen(msg.next)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenOnboarding:
			return m.updateOnboarding(msg)
		case ScreenMain:
			return m.updateMain(msg)
		case ScreenSettings:
			return m.updateSettings(msg)
		}
	}

	// Cursor blink and other input messages go to the focused field.
	var cmd tea.Cmd
	switch m.screen {
	case ScreenOnboarding:
		m.goalInput, cmd = m.goalInput.Update(msg)
	case ScreenSettings:
		m.settingsInput, cmd = m.settingsInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setScreen(s Screen) tea.Cmd {
	if s == m.screen {
		return nil
	}
	m.screen = s
	m.goalInput.Blur()
	m.settingsInput.Blur()

	switch s {
	case ScreenOnboarding:
		m.notice = ""
		return m.goalInput.Focus()
	case ScreenSettings:
		m.settingsInput.SetValue(strconv.Itoa(m.status.Goal))
		m.settingsInput.CursorEnd()
		return m.settingsInput.Focus()
	}
	return nil
}

func (m Model) updateOnboarding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if m.onboardGoal <= 0 {
			return m, nil
		}
		return m, m.completeOnboarding(m.onboardGoal)
	}

	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	// Non-numeric text keeps the last goal that parsed.
	if n, err := strconv.Atoi(strings.TrimSpace(m.goalInput.Value())); err == nil {
		m.onboardGoal = n
	}
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "a", " ", "+":
		m.notice = ""
		return m, m.addIntake(models.DefaultIncrement)
	case "c":
		m.showChart = !m.showChart
		return m, nil
	case "s":
		m.notice = ""
		return m, m.setScreen(ScreenSettings)
	}
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.notice = ""
		return m, m.setScreen(ScreenMain)
	case tea.KeyCtrlR:
		return m, m.resetOnboarding()
	case tea.KeyEnter:
		goal, ok := m.settingsGoal()
		if !ok {
			return m, nil
		}
		return m, m.saveGoal(goal)
	}

	var cmd tea.Cmd
	m.settingsInput, cmd = m.settingsInput.Update(msg)
	m.notice = ""
	return m, cmd
}

// settingsGoal parses the settings input. Only positive integers can be saved.
func (m Model) settingsGoal() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.settingsInput.Value()))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (m Model) addIntake(amount int) tea.Cmd {
	ctx, tr, screen := m.ctx, m.tracker, m.screen
	return func() tea.Msg {
		_, err := tr.AddIntake(ctx, amount)
		return writeMsg{err: err, next: screen}
	}
}

func (m Model) completeOnboarding(goal int) tea.Cmd {
	ctx, tr := m.ctx, m.tracker
	return func() tea.Msg {
		return writeMsg{err: tr.CompleteOnboarding(ctx, goal), next: ScreenMain}
	}
}

func (m Model) saveGoal(goal int) tea.Cmd {
	ctx, tr := m.ctx, m.tracker
	return func() tea.Msg {
		return writeMsg{
			err:    tr.SetDailyGoal(ctx, goal),
			next:   ScreenSettings,
			notice: fmt.Sprintf("Daily goal saved: %s ml", humanize.Comma(int64(goal))),
		}
	}
}

// resetOnboarding clears the flag and returns to the main screen. Onboarding
// shows again on the next launch.
func (m Model) resetOnboarding() tea.Cmd {
	ctx, tr := m.ctx, m.tracker
	return func() tea.Msg {
		return writeMsg{
			err:    tr.ResetOnboarding(ctx),
			next:   ScreenMain,
			notice: "Onboarding reset",
		}
	}
}

// View renders the active screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenOnboarding:
		body = m.viewOnboarding()
	case ScreenMain:
		body = m.viewMain()
	case ScreenSettings:
		body = m.viewSettings()
	}

	var sb strings.Builder
	sb.WriteString(boxStyle.Render(body))
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	return sb.String()
}

func (m Model) viewOnboarding() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome to Hydrate!"),
		"",
		"Set your daily water goal (ml):",
		m.goalInput.View(),
		"",
		button("Get Started", m.onboardGoal > 0),
		"",
		helpStyle.Render("enter: get started • ctrl+c: quit"),
	)
}

func (m Model) viewMain() string {
	s := m.status
	chartLabel := "Show Progress Chart"
	if m.showChart {
		chartLabel = "Hide Progress Chart"
	}

	lines := []string{
		headingStyle.Render("Today's Intake"),
		amountStyle.Render(fmt.Sprintf("%s ml / %s ml",
			humanize.Comma(int64(s.Today)), humanize.Comma(int64(s.Goal)))),
		barStyle.Render(Bar(s.Progress, progressBarWidth)) + fmt.Sprintf(" %.0f%%", s.Progress*100),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			button(fmt.Sprintf("+%d ml", models.DefaultIncrement), true), " ",
			button(chartLabel, true), " ",
			button("Settings", true)),
	}

	if m.showChart {
		lines = append(lines, "", headingStyle.Render("Last 7 Days"))
		lines = append(lines, WeekChart(s.Week, s.Goal, chartBarWidth)...)
	}

	lines = append(lines, "",
		helpStyle.Render("a/space: +250 ml • c: chart • s: settings • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSettings() string {
	_, canSave := m.settingsGoal()
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Settings"),
		"",
		"Adjust your daily goal (ml):",
		m.settingsInput.View(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			button("Save Goal", canSave), " ",
			button("Reset Onboarding", true), " ",
			button("Back", true)),
		"",
		helpStyle.Render("enter: save • ctrl+r: reset onboarding • esc: back"),
	)
}

// WeekChart renders one "LBL bar amount ml" row per day, with bar length
// proportional to the day's share of goal.
func WeekChart(days []models.DayIntake, goal, width int) []string {
	rows := make([]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, fmt.Sprintf("%-3s %s  %s ml",
			d.Label,
			barStyle.Render(Bar(models.Fraction(d.Amount, goal), width)),
			humanize.Comma(int64(d.Amount))))
	}
	return rows
}

// Run starts the UI and blocks until the user quits. Canceling ctx, or
// quitting, ends the status subscription.
func Run(ctx context.Context, tr *tracker.Tracker) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, tr), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
