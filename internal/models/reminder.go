package models

import "time"

type ReminderKind string

const (
	ReminderHabit   ReminderKind = "habit"
	ReminderChore   ReminderKind = "chore"
	ReminderTask    ReminderKind = "task"
	ReminderSummary ReminderKind = "summary"
	ReminderBudget  ReminderKind = "budget"
)

// Reminder is a scheduled notification for a tracked entity. Reminders with
// an empty Day repeat daily; otherwise they fire once on Day.
type Reminder struct {
	Kind         ReminderKind `json:"kind" yaml:"kind"`
	EntityID     string       `json:"entity_id" yaml:"entity_id"`
	Title        string       `json:"title" yaml:"title"`
	Body         string       `json:"body" yaml:"body"`
	Hour         int          `json:"hour" yaml:"hour"`
	Minute       int          `json:"minute" yaml:"minute"`
	Day          string       `json:"day,omitempty" yaml:"day,omitempty"`                       // YYYY-MM-DD format
	LastFiredDay string       `json:"last_fired_day,omitempty" yaml:"last_fired_day,omitempty"` // YYYY-MM-DD format
	UpdatedAt    time.Time    `json:"updated_at" yaml:"updated_at"`
}

// MinuteOfDay returns the reminder's trigger time as minutes from midnight.
func (r Reminder) MinuteOfDay() int {
	return r.Hour*60 + r.Minute
}
