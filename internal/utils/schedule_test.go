package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
)

func TestIsHabitScheduled(t *testing.T) {
	// 2024-03-04 is a Monday
	monday := mustDate(t, "2024-03-04")
	saturday := mustDate(t, "2024-03-09")

	tests := []struct {
		name     string
		habit    models.Habit
		date     time.Time
		expected bool
	}{
		{"daily on monday", models.Habit{Frequency: models.FrequencyDaily}, monday, true},
		{"weekdays on monday", models.Habit{Frequency: models.FrequencyWeekdays}, monday, true},
		{"weekdays on saturday", models.Habit{Frequency: models.FrequencyWeekdays}, saturday, false},
		{"weekends on saturday", models.Habit{Frequency: models.FrequencyWeekends}, saturday, true},
		{"weekends on monday", models.Habit{Frequency: models.FrequencyWeekends}, monday, false},
		{"custom includes monday", models.Habit{Frequency: models.FrequencyCustom, Weekdays: []time.Weekday{time.Monday, time.Thursday}}, monday, true},
		{"custom excludes saturday", models.Habit{Frequency: models.FrequencyCustom, Weekdays: []time.Weekday{time.Monday}}, saturday, false},
		{"custom without days", models.Habit{Frequency: models.FrequencyCustom}, monday, false},
		{"unknown frequency", models.Habit{Frequency: "hourly"}, monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHabitScheduled(tt.habit, tt.date); got != tt.expected {
				t.Errorf("IsHabitScheduled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatHabitFrequency(t *testing.T) {
	h := models.Habit{Frequency: models.FrequencyCustom, Weekdays: []time.Weekday{time.Tuesday, time.Saturday}}
	if got := FormatHabitFrequency(h); got != "on Tue,Sat" {
		t.Errorf("FormatHabitFrequency = %q", got)
	}
	if got := FormatHabitFrequency(models.Habit{Frequency: models.FrequencyWeekdays}); got != "weekdays" {
		t.Errorf("FormatHabitFrequency = %q", got)
	}
}
