// Package recurrence computes chore due dates from their completion history.
package recurrence

import (
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

// NextDue returns the due date that follows a completion on from. Weekly and
// biweekly chores advance by a flat 7 or 14 days; monthly chores keep the day
// of month, clamped to the length of the target month.
func NextDue(freq models.ChoreFrequency, from time.Time) time.Time {
	switch freq {
	case models.ChoreDaily:
		return utils.AddDays(from, 1)
	case models.ChoreEvery2Days:
		return utils.AddDays(from, 2)
	case models.ChoreWeekly:
		return utils.AddDays(from, 7)
	case models.ChoreBiweekly:
		return utils.AddDays(from, 14)
	case models.ChoreMonthly:
		return utils.AddMonths(from, 1)
	default:
		// Unknown frequencies fall back to the product default (weekly).
		return utils.AddDays(from, 7)
	}
}

// RecordDone returns chore marked as done on today with its next due date
// rolled forward.
func RecordDone(chore models.Chore, today time.Time) models.Chore {
	d := utils.DateOf(today)
	chore.LastDoneDate = utils.FormatDate(d)
	chore.NextDueDate = utils.FormatDate(NextDue(chore.Frequency, d))
	return chore
}

// Reconcile recomputes NextDueDate from LastDoneDate, e.g. after the
// frequency was edited. Chores that were never done are returned unchanged.
func Reconcile(chore models.Chore) (models.Chore, error) {
	if chore.LastDoneDate == "" {
		return chore, nil
	}
	last, err := utils.ParseDate(chore.LastDoneDate)
	if err != nil {
		return chore, err
	}
	chore.NextDueDate = utils.FormatDate(NextDue(chore.Frequency, last))
	return chore, nil
}

// IsOverdue reports whether an active chore's due date is strictly before today.
// A chore is not overdue on its due date.
func IsOverdue(chore models.Chore, today time.Time) bool {
	n, ok := DaysUntilDue(chore, today)
	return chore.Active && ok && n < 0
}

// IsDue reports whether an active chore is due today or overdue.
func IsDue(chore models.Chore, today time.Time) bool {
	n, ok := DaysUntilDue(chore, today)
	return chore.Active && ok && n <= 0
}

// DaysUntilDue returns the number of days from today until the chore's due
// date (negative when overdue). ok is false when the chore has no due date.
func DaysUntilDue(chore models.Chore, today time.Time) (int, bool) {
	if chore.NextDueDate == "" {
		return 0, false
	}
	due, err := utils.ParseDate(chore.NextDueDate)
	if err != nil {
		return 0, false
	}
	return utils.DaysBetween(today, due), true
}
