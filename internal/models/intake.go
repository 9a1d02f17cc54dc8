// ABOUTME: Date keys, weekday labels, and daily intake values for water tracking.
// ABOUTME: A DateKey is a local calendar day encoded as the integer YYYYMMDD.
package models

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDailyGoal is the goal in ml used until the user sets one.
	DefaultDailyGoal = 2000

	// DefaultIncrement is the amount in ml logged by a single quick add.
	DefaultIncrement = 250

	// HistoryRetentionDays is the number of distinct days kept in history.
	HistoryRetentionDays = 7

	// Unit is the display unit for every intake amount.
	Unit = "ml"
)

// DateKey identifies a calendar day as YYYYMMDD, e.g. 20250131.
type DateKey int

// DateKeyOf returns the DateKey of t's calendar day in t's location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseDateKey parses an eight digit YYYYMMDD string.
func ParseDateKey(s string) (DateKey, bool) {
	if len(s) != 8 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return DateKey(n), true
}

// String returns the eight digit form used as history keys.
func (k DateKey) String() string {
	return strconv.Itoa(int(k))
}

// Time returns midnight of the day in loc.
func (k DateKey) Time(loc *time.Location) time.Time {
	n := int(k)
	return time.Date(n/10000, time.Month(n/100%100), n%100, 0, 0, 0, 0, loc)
}

// WeekdayLabel returns the short upper-case weekday name, e.g. "MON".
func WeekdayLabel(t time.Time) string {
	return strings.ToUpper(t.Weekday().String()[:3])
}

// DayIntake is the total logged on one calendar day.
type DayIntake struct {
	Date   time.Time `json:"date"`
	Label  string    `json:"label"`
	Amount int       `json:"amount"`
}

// Fraction returns amount/goal clamped to [0, 1]. A non-positive goal yields 0.
func Fraction(amount, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	f := float64(amount) / float64(goal)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
