package models

import (
	"fmt"
	"strings"
	"time"
)

// HabitFrequency describes on which days a habit is expected to be done.
type HabitFrequency string

const (
	FrequencyDaily    HabitFrequency = "daily"
	FrequencyWeekdays HabitFrequency = "weekdays"
	FrequencyWeekends HabitFrequency = "weekends"
	FrequencyCustom   HabitFrequency = "custom"
)

// HabitFrequencies lists every supported habit frequency.
var HabitFrequencies = []HabitFrequency{FrequencyDaily, FrequencyWeekdays, FrequencyWeekends, FrequencyCustom}

// ParseHabitFrequency converts user input into a HabitFrequency.
func ParseHabitFrequency(s string) (HabitFrequency, error) {
	f := HabitFrequency(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range HabitFrequencies {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid habit frequency: %q", s)
}

// Habit represents a recurring practice to track
type Habit struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Icon         string         `json:"icon" yaml:"icon"`
	Frequency    HabitFrequency `json:"frequency" yaml:"frequency"`
	Weekdays     []time.Weekday `json:"weekdays,omitempty" yaml:"weekdays,omitempty"` // custom frequency only
	ReminderTime string         `json:"reminder_time" yaml:"reminder_time"`           // HH:MM format
	Active       bool           `json:"active" yaml:"active"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`

	// Derived state, owned by the streak engine.
	CurrentStreak     int    `json:"current_streak" yaml:"current_streak"`
	LongestStreak     int    `json:"longest_streak" yaml:"longest_streak"`
	TotalCompletions  int    `json:"total_completions" yaml:"total_completions"`
	LastCompletedDate string `json:"last_completed_date,omitempty" yaml:"last_completed_date,omitempty"` // YYYY-MM-DD format
}

// HabitLog represents a single day's record of a habit. There is at most one
// log per habit and day.
type HabitLog struct {
	ID        string `json:"id" yaml:"id"`
	HabitID   string `json:"habit_id" yaml:"habit_id"`
	Date      string `json:"date" yaml:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed" yaml:"completed"`
}
