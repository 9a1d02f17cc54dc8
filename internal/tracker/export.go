// ABOUTME: Export and import of the tracked preferences.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/hydrate/internal/models"
	"github.com/harperreed/hydrate/internal/prefs"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for hydration data.
type ExportData struct {
	Version     string         `json:"version" yaml:"version"`
	ExportedAt  time.Time      `json:"exported_at" yaml:"exported_at"`
	Tool        string         `json:"tool" yaml:"tool"`
	Onboarded   bool           `json:"onboarded" yaml:"onboarded"`
	DailyGoal   int            `json:"daily_goal" yaml:"daily_goal"`
	TodayIntake int            `json:"today_intake" yaml:"today_intake"`
	LastLogDate int            `json:"last_log_date,omitempty" yaml:"last_log_date,omitempty"`
	History     models.History `json:"history" yaml:"history"`
}

// Export snapshots every tracked value as stored.
func (t *Tracker) Export() *ExportData {
	p := t.store.Data()
	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  t.now(),
		Tool:        "hydrate",
		Onboarded:   prefs.GetOr(p, KeyOnboarded, false),
		DailyGoal:   dailyGoal(p),
		TodayIntake: prefs.GetOr(p, KeyTodayIntake, 0),
		LastLogDate: prefs.GetOr(p, KeyLastLogDate, 0),
		History:     history(p),
	}
}

// Import replaces every tracked value with data in one edit. History is
// trimmed to the retention window.
func (t *Tracker) Import(ctx context.Context, data *ExportData) error {
	if data == nil {
		return ErrNoImportData
	}
	if data.DailyGoal <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGoal, data.DailyGoal)
	}
	if data.TodayIntake < 0 {
		return fmt.Errorf("%w: today intake %d", ErrInvalidAmount, data.TodayIntake)
	}
	if data.LastLogDate != 0 {
		if _, ok := models.ParseDateKey(fmt.Sprint(data.LastLogDate)); !ok {
			return fmt.Errorf("invalid last log date %d", data.LastLogDate)
		}
	}

	h := models.History{}
	for k, v := range data.History {
		if _, ok := models.ParseDateKey(k); !ok {
			return fmt.Errorf("invalid history date %q", k)
		}
		if v < 0 {
			return fmt.Errorf("%w: history %s has %d", ErrInvalidAmount, k, v)
		}
		h[k] = v
	}
	h.Trim(models.HistoryRetentionDays)

	_, err := t.store.Edit(ctx, func(m *prefs.MutablePreferences) error {
		prefs.Set(m, KeyOnboarded, data.Onboarded)
		prefs.Set(m, KeyDailyGoal, data.DailyGoal)
		prefs.Set(m, KeyTodayIntake, data.TodayIntake)
		if data.LastLogDate == 0 {
			prefs.Remove(m, KeyLastLogDate)
		} else {
			prefs.Set(m, KeyLastLogDate, data.LastLogDate)
		}
		prefs.Set(m, KeyIntakeHistory, h.Encode())
		return nil
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	t.logger.Info("imported hydration data", "days", len(h), "exported_at", data.ExportedAt)
	return nil
}

// ExportJSON exports all data as JSON.
func (t *Tracker) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(t.Export(), "", "  ")
}

// ExportYAML exports all data as YAML.
func (t *Tracker) ExportYAML() ([]byte, error) {
	data := t.Export()

	yamlData := struct {
		Version     string         `yaml:"version"`
		ExportedAt  time.Time      `yaml:"exported_at"`
		Tool        string         `yaml:"tool"`
		Onboarded   bool           `yaml:"onboarded"`
		DailyGoal   int            `yaml:"daily_goal"`
		TodayIntake int            `yaml:"today_intake"`
		LastLogDate int            `yaml:"last_log_date,omitempty"`
		History     map[string]int `yaml:"history"`
	}{
		Version:     data.Version,
		ExportedAt:  data.ExportedAt.Truncate(time.Second),
		Tool:        data.Tool,
		Onboarded:   data.Onboarded,
		DailyGoal:   data.DailyGoal,
		TodayIntake: data.TodayIntake,
		LastLogDate: data.LastLogDate,
		History:     data.History,
	}

	return yaml.Marshal(yamlData)
}

// ExportMarkdown exports the current status and week as Markdown.
func (t *Tracker) ExportMarkdown() string {
	s := t.Status()
	now := t.now()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Hydration Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Today\n\n")
	sb.WriteString(fmt.Sprintf("- Intake: %d %s\n", s.Today, models.Unit))
	sb.WriteString(fmt.Sprintf("- Goal: %d %s\n", s.Goal, models.Unit))
	sb.WriteString(fmt.Sprintf("- Progress: %.0f%%\n\n", s.Progress*100))

	sb.WriteString("## Last 7 Days\n\n")
	sb.WriteString("| Date | Day | Intake | Goal Reached |\n")
	sb.WriteString("|------|-----|--------|--------------|\n")
	for _, d := range s.Week {
		reached := ""
		if d.Amount >= s.Goal {
			reached = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d %s | %s |\n",
			d.Date.Format("2006-01-02"), d.Label, d.Amount, models.Unit, reached))
	}

	return sb.String()
}

// ParseExport decodes an export document. YAML is a superset of JSON, but
// JSON input goes through encoding/json so its time format is preserved.
func ParseExport(raw []byte, format string) (*ExportData, error) {
	var data ExportData
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q (use json or yaml)", format)
	}
	if data.Tool != "" && data.Tool != "hydrate" {
		return nil, fmt.Errorf("export was written by %q, not hydrate", data.Tool)
	}
	return &data, nil
}
