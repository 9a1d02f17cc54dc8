// ABOUTME: MCP tool implementations for water intake tracking.
// ABOUTME: Logs intake, reads today and the week, sets the goal, and resets onboarding.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// add_intake
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_intake",
		Description: "Log water intake in ml for today (defaults to 250 ml)",
	}, s.handleAddIntake)

	// get_today
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_today",
		Description: "Get today's water intake, goal, and progress",
	}, s.handleGetToday)

	// get_week
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_week",
		Description: "Get water intake for the last 7 days, oldest first",
	}, s.handleGetWeek)

	// set_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_goal",
		Description: "Set the daily water intake goal in ml",
	}, s.handleSetGoal)

	// reset_onboarding
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_onboarding",
		Description: "Clear the onboarding flag so the welcome screen shows again",
	}, s.handleResetOnboarding)

	// get_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status",
		Description: "Get the full status: today, goal, progress, onboarding, and the week",
	}, s.handleGetStatus)
}

// Tool input/output types

type addIntakeInput struct {
	AmountML int `json:"amount_ml,omitempty" jsonschema:"amount of water in ml, defaults to 250"`
}

type emptyInput struct{}

type todayOutput struct {
	Date      string  `json:"date"`
	TodayML   int     `json:"today_ml"`
	GoalML    int     `json:"goal_ml"`
	Remaining int     `json:"remaining_ml"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message"`
}

type dayOutput struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	AmountML int    `json:"amount_ml"`
}

type weekOutput struct {
	Days      []dayOutput `json:"days"`
	GoalML    int         `json:"goal_ml"`
	TotalML   int         `json:"total_ml"`
	AverageML int         `json:"average_ml"`
	DaysMet   int         `json:"days_goal_met"`
}

type setGoalInput struct {
	GoalML int `json:"goal_ml" jsonschema:"daily goal in ml, must be positive"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type statusOutput struct {
	Date      string      `json:"date"`
	TodayML   int         `json:"today_ml"`
	GoalML    int         `json:"goal_ml"`
	Remaining int         `json:"remaining_ml"`
	Progress  float64     `json:"progress"`
	Onboarded bool        `json:"onboarded"`
	Week      []dayOutput `json:"week"`
}

// Tool handlers

func (s *Server) handleAddIntake(ctx context.Context, req *mcp.CallToolRequest, input addIntakeInput) (*mcp.CallToolResult, todayOutput, error) {
	amount := input.AmountML
	if amount == 0 {
		amount = models.DefaultIncrement
	}

	if _, err := s.tracker.AddIntake(ctx, amount); err != nil {
		return nil, todayOutput{}, fmt.Errorf("failed to add intake: %w", err)
	}
	s.logger.Debug("mcp add_intake", "amount", amount)

	out := newTodayOutput(s.tracker.Status())
	out.Message = fmt.Sprintf("Added %d ml. Today: %d / %d ml (%.0f%%)",
		amount, out.TodayML, out.GoalML, out.Progress*100)
	return nil, out, nil
}

func (s *Server) handleGetToday(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, todayOutput, error) {
	out := newTodayOutput(s.tracker.Status())
	out.Message = fmt.Sprintf("Today: %d / %d ml (%.0f%%)", out.TodayML, out.GoalML, out.Progress*100)
	return nil, out, nil
}

func (s *Server) handleGetWeek(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, weekOutput, error) {
	return nil, newWeekOutput(s.tracker.Status()), nil
}

func (s *Server) handleSetGoal(ctx context.Context, req *mcp.CallToolRequest, input setGoalInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.SetDailyGoal(ctx, input.GoalML); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set goal: %w", err)
	}
	s.logger.Debug("mcp set_goal", "goal", input.GoalML)

	return nil, simpleOutput{
		Message: fmt.Sprintf("Daily goal set to %d ml", input.GoalML),
	}, nil
}

func (s *Server) handleResetOnboarding(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.ResetOnboarding(ctx); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to reset onboarding: %w", err)
	}

	return nil, simpleOutput{
		Message: "Onboarding reset. The welcome screen will show on next launch.",
	}, nil
}

func (s *Server) handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statusOutput, error) {
	st := s.tracker.Status()
	return nil, statusOutput{
		Date:      formatDate(st.Date),
		TodayML:   st.Today,
		GoalML:    st.Goal,
		Remaining: st.Remaining,
		Progress:  st.Progress,
		Onboarded: st.Onboarded,
		Week:      dayOutputs(st.Week),
	}, nil
}

func newTodayOutput(st tracker.Status) todayOutput {
	return todayOutput{
		Date:      formatDate(st.Date),
		TodayML:   st.Today,
		GoalML:    st.Goal,
		Remaining: st.Remaining,
		Progress:  st.Progress,
	}
}

func newWeekOutput(st tracker.Status) weekOutput {
	out := weekOutput{
		Days:   dayOutputs(st.Week),
		GoalML: st.Goal,
	}
	for _, d := range st.Week {
		out.TotalML += d.Amount
		if d.Amount >= st.Goal {
			out.DaysMet++
		}
	}
	if len(st.Week) > 0 {
		out.AverageML = out.TotalML / len(st.Week)
	}
	return out
}

func dayOutputs(days []models.DayIntake) []dayOutput {
	out := make([]dayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, dayOutput{
			Date:     formatDate(d.Date),
			Label:    d.Label,
			AmountML: d.Amount,
		})
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
