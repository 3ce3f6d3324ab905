package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
)

// IsHabitScheduled reports whether a habit's frequency expects it to be done
// on the given date. Streaks are counted on consecutive calendar days
// regardless of frequency; this only drives reminders and the today view.
func IsHabitScheduled(habit models.Habit, date time.Time) bool {
	wd := date.Weekday()
	switch habit.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekdays:
		return wd >= time.Monday && wd <= time.Friday
	case models.FrequencyWeekends:
		return wd == time.Saturday || wd == time.Sunday
	case models.FrequencyCustom:
		for _, d := range habit.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FormatHabitFrequency formats a habit's frequency into a human-readable string
func FormatHabitFrequency(habit models.Habit) string {
	switch habit.Frequency {
	case models.FrequencyCustom:
		if len(habit.Weekdays) == 0 {
			return "custom"
		}
		return fmt.Sprintf("on %s", FormatWeekdays(habit.Weekdays))
	case "":
		return "unknown"
	default:
		return string(habit.Frequency)
	}
}
