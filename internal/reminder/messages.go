package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/budget"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
)

func HabitTitle(h models.Habit) string {
	return fmt.Sprintf("Time for: %s", h.Name)
}

// HabitBody mentions the running streak when there is one.
func HabitBody(h models.Habit) string {
	if h.CurrentStreak > 0 {
		return fmt.Sprintf("Don't break your routine. 🔥 %d day streak!", h.CurrentStreak)
	}
	return "Don't break your routine."
}

func ChoreTitle(c models.Chore) string {
	return fmt.Sprintf("🏠 Chore due: %s", c.Name)
}

func ChoreBody(c models.Chore) string {
	if c.Room == "" {
		return "Don't postpone it!"
	}
	return fmt.Sprintf("Room: %s - don't postpone it!", RoomLabel(c.Room))
}

// RoomLabel renders a room tag for display, e.g. "living room".
func RoomLabel(r models.ChoreRoom) string {
	return strings.ReplaceAll(string(r), "_", " ")
}

func TaskTitle(t models.Task) string {
	return fmt.Sprintf("📋 %s", t.Title)
}

// TaskBody shows the deadline in loc, the user's timezone.
func TaskBody(t models.Task, loc *time.Location) string {
	if t.Deadline != nil {
		return fmt.Sprintf("Due %s (%s priority)", t.Deadline.In(loc).Format(constants.DateTimeFormat), t.Priority)
	}
	return fmt.Sprintf("%s priority task", t.Priority)
}

// SummaryCounts feeds the daily summary notification.
type SummaryCounts struct {
	TasksDue      int
	HabitsPending int
	ChoresDue     int
	ChoresOverdue int
}

const SummaryTitle = "☀️ Good morning!"

func SummaryBody(c SummaryCounts) string {
	if c.TasksDue == 0 && c.HabitsPending == 0 && c.ChoresDue == 0 {
		return "Nothing due today. Enjoy it!"
	}

	parts := []string{
		plural(c.TasksDue, "task") + " due",
		plural(c.HabitsPending, "habit") + " to do",
		plural(c.ChoresDue, "chore") + " due",
	}
	body := strings.Join(parts, ", ")
	if c.ChoresOverdue > 0 {
		body += fmt.Sprintf(" (%d overdue)", c.ChoresOverdue)
	}
	return body
}

func BudgetTitle(c budget.CategorySpend) string {
	return fmt.Sprintf("💸 Over budget: %s", c.Category)
}

func BudgetBody(c budget.CategorySpend, currency string) string {
	return fmt.Sprintf("Spent %s%.2f of %s%.2f this month.", currency, c.Spent, currency, c.Limit)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
