// Package streak applies habit completions to a habit's streak counters.
//
// The functions here are pure: the caller supplies the current date and the
// persisted state, and is responsible for writing the returned habit and log
// in a single transaction.
package streak

import (
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

// Result is the outcome of RecordCompletion.
type Result struct {
	Habit models.Habit
	Log   models.HabitLog
	// Applied is false when the habit was already completed on the requested
	// date; Habit is then unchanged and Log is the existing entry.
	Applied bool
}

// RecordCompletion marks habit as done on today. existing is the stored log
// for (habit, today), or nil when there is none.
func RecordCompletion(habit models.Habit, existing *models.HabitLog, today time.Time) Result {
	day := utils.FormatDate(utils.DateOf(today))

	if existing != nil && existing.Completed {
		return Result{Habit: habit, Log: *existing}
	}

	log := models.HabitLog{HabitID: habit.ID, Date: day, Completed: true}
	if existing != nil {
		log.ID = existing.ID
	}

	updated := habit
	updated.CurrentStreak = NextStreak(habit, today)
	if updated.CurrentStreak > updated.LongestStreak {
		updated.LongestStreak = updated.CurrentStreak
	}
	updated.TotalCompletions = habit.TotalCompletions + 1
	updated.LastCompletedDate = day

	return Result{Habit: updated, Log: log, Applied: true}
}

// NextStreak returns the streak the habit would have after a completion on
// today: one more than the current streak when the last completion was
// yesterday (or today), otherwise a fresh streak of 1.
func NextStreak(habit models.Habit, today time.Time) int {
	if Continues(habit.LastCompletedDate, today) {
		return habit.CurrentStreak + 1
	}
	return 1
}

// Continues reports whether a completion on today extends a streak whose
// last completion was lastCompleted (YYYY-MM-DD, empty when never done).
func Continues(lastCompleted string, today time.Time) bool {
	if lastCompleted == "" {
		return false
	}
	d := utils.DateOf(today)
	return lastCompleted == utils.FormatDate(d) ||
		lastCompleted == utils.FormatDate(utils.AddDays(d, -1))
}

// IsCompletedOn reports whether logs contain a completed entry for habit on date.
func IsCompletedOn(habit models.Habit, logs []models.HabitLog, date time.Time) bool {
	day := utils.FormatDate(utils.DateOf(date))
	for _, l := range logs {
		if l.HabitID == habit.ID && l.Date == day && l.Completed {
			return true
		}
	}
	return false
}

// IsBroken reports whether the habit's current streak can no longer be
// continued on today, i.e. its last completion is older than yesterday.
func IsBroken(habit models.Habit, today time.Time) bool {
	return habit.CurrentStreak > 0 && !Continues(habit.LastCompletedDate, today)
}
