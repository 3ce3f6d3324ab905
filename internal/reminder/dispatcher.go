package reminder

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/budget"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/notifier"
	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/utils"
)

// SummaryEntityID identifies the single daily summary reminder row.
const SummaryEntityID = "daily"

// Delivery records one notification attempt.
type Delivery struct {
	Kind     models.ReminderKind
	EntityID string
	Title    string
	Body     string
	Err      error
}

type Report struct {
	Sent   []Delivery
	Failed []Delivery
}

// Dispatcher sends the reminders that are due at a given instant. Each
// reminder fires at most once per day; failed deliveries are retried on the
// next run.
type Dispatcher struct {
	repo     storage.Repository
	notifier notifier.Notifier
	// DryRun delivers without recording anything as fired.
	DryRun bool
}

func NewDispatcher(repo storage.Repository, n notifier.Notifier) *Dispatcher {
	return &Dispatcher{repo: repo, notifier: n}
}

// Run delivers everything due at now. now must already be in the user's
// timezone.
func (d *Dispatcher) Run(now time.Time) (Report, error) {
	var report Report

	settings, err := d.repo.GetSettings()
	if err != nil {
		return report, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, skipping dispatch")
		return report, nil
	}

	if err := d.syncSummary(settings); err != nil {
		return report, err
	}

	today := utils.DateOf(now)
	day := utils.FormatDate(today)
	minute := now.Hour()*60 + now.Minute()

	reminders, err := d.repo.GetReminders()
	if err != nil {
		return report, fmt.Errorf("failed to load reminders: %w", err)
	}

	for _, r := range reminders {
		if !isDueAt(r, day, minute) {
			continue
		}

		title, body, ok, err := d.resolve(r, now)
		if err != nil {
			return report, err
		}
		if !ok {
			continue
		}

		d.deliver(&report, r.Kind, r.EntityID, title, body, func() error {
			return d.repo.MarkReminderFired(r.Kind, r.EntityID, day)
		})
	}

	if settings.BudgetAlertsEnabled {
		if err := d.budgetAlerts(&report, now, settings.CurrencySymbol); err != nil {
			return report, err
		}
	}

	return report, nil
}

// isDueAt applies the timing rules shared by every reminder kind.
// Repeating reminders fire once per day after their time of day. One-shot
// reminders fire once on or after their day.
func isDueAt(r models.Reminder, day string, minute int) bool {
	if r.Kind == models.ReminderBudget {
		return false
	}
	if r.Day == "" {
		return r.LastFiredDay != day && minute >= r.MinuteOfDay()
	}
	if r.LastFiredDay != "" || r.Day > day {
		return false
	}
	return r.Day < day || minute >= r.MinuteOfDay()
}

// resolve loads the entity behind r and decides whether it still warrants a
// notification. Reminders for deleted entities are removed.
func (d *Dispatcher) resolve(r models.Reminder, now time.Time) (string, string, bool, error) {
	today := utils.DateOf(now)

	switch r.Kind {
	case models.ReminderHabit:
		h, err := d.repo.GetHabit(r.EntityID)
		if isNotFound(err) {
			return "", "", false, d.repo.DeleteReminder(r.Kind, r.EntityID)
		}
		if err != nil {
			return "", "", false, err
		}
		if !h.Active || !utils.IsHabitScheduled(h, today) {
			return "", "", false, nil
		}
		log, err := d.repo.GetHabitLog(h.ID, utils.FormatDate(today))
		if err != nil && !isNotFound(err) {
			return "", "", false, err
		}
		if err == nil && log.Completed {
			return "", "", false, nil
		}
		return HabitTitle(h), HabitBody(h), true, nil

	case models.ReminderChore:
		c, err := d.repo.GetChore(r.EntityID)
		if isNotFound(err) {
			return "", "", false, d.repo.DeleteReminder(r.Kind, r.EntityID)
		}
		if err != nil {
			return "", "", false, err
		}
		if !recurrence.IsDue(c, today) {
			return "", "", false, nil
		}
		return ChoreTitle(c), ChoreBody(c), true, nil

	case models.ReminderTask:
		t, err := d.repo.GetTask(r.EntityID)
		if isNotFound(err) {
			return "", "", false, d.repo.DeleteReminder(r.Kind, r.EntityID)
		}
		if err != nil {
			return "", "", false, err
		}
		if t.Completed {
			return "", "", false, nil
		}
		return TaskTitle(t), TaskBody(t, now.Location()), true, nil

	case models.ReminderSummary:
		counts, err := d.summaryCounts(now)
		if err != nil {
			return "", "", false, err
		}
		return SummaryTitle, SummaryBody(counts), true, nil
	}

	return r.Title, r.Body, true, nil
}

// syncSummary keeps the daily summary reminder row in line with settings.
func (d *Dispatcher) syncSummary(settings models.Settings) error {
	if !settings.DailySummaryEnabled {
		return d.repo.DeleteReminder(models.ReminderSummary, SummaryEntityID)
	}

	minutes, err := utils.ParseTimeToMinutes(settings.DailySummaryTime)
	if err != nil {
		return fmt.Errorf("invalid daily summary time: %w", err)
	}

	existing, err := d.repo.GetReminder(models.ReminderSummary, SummaryEntityID)
	if err == nil && existing.MinuteOfDay() == minutes {
		return nil
	}
	if err != nil && !isNotFound(err) {
		return err
	}

	return d.repo.PutReminder(models.Reminder{
		Kind:     models.ReminderSummary,
		EntityID: SummaryEntityID,
		Title:    SummaryTitle,
		Hour:     minutes / 60,
		Minute:   minutes % 60,
	})
}

func (d *Dispatcher) summaryCounts(now time.Time) (SummaryCounts, error) {
	var counts SummaryCounts
	today := utils.DateOf(now)
	day := utils.FormatDate(today)

	tasks, err := d.repo.GetActiveTasks()
	if err != nil {
		return counts, err
	}
	for _, t := range tasks {
		if t.Deadline != nil && utils.FormatDate(t.Deadline.In(now.Location())) <= day {
			counts.TasksDue++
		}
	}

	habits, err := d.repo.GetHabits(false)
	if err != nil {
		return counts, err
	}
	logs, err := d.repo.GetHabitLogsForDay(day)
	if err != nil {
		return counts, err
	}
	for _, h := range habits {
		if utils.IsHabitScheduled(h, today) && !habitDone(h.ID, logs) {
			counts.HabitsPending++
		}
	}

	chores, err := d.repo.GetChores(false)
	if err != nil {
		return counts, err
	}
	for _, c := range chores {
		if recurrence.IsDue(c, today) {
			counts.ChoresDue++
		}
		if recurrence.IsOverdue(c, today) {
			counts.ChoresOverdue++
		}
	}

	return counts, nil
}

func habitDone(habitID string, logs []models.HabitLog) bool {
	for _, l := range logs {
		if l.HabitID == habitID && l.Completed {
			return true
		}
	}
	return false
}

// budgetAlerts notifies once per month for every category over its goal.
func (d *Dispatcher) budgetAlerts(report *Report, now time.Time, currency string) error {
	month := now.Format(constants.MonthFormat)
	start, end, err := budget.MonthRange(month)
	if err != nil {
		return err
	}

	txns, err := d.repo.GetTransactions(start, end)
	if err != nil {
		return err
	}
	goals, err := d.repo.GetBudgetGoals(month)
	if err != nil {
		return err
	}

	for _, c := range budget.Summarize(month, txns, goals).OverBudget() {
		id := string(c.Category) + "@" + month
		_, err := d.repo.GetReminder(models.ReminderBudget, id)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return err
		}

		title, body := BudgetTitle(c), BudgetBody(c, currency)
		d.deliver(report, models.ReminderBudget, id, title, body, func() error {
			return d.repo.PutReminder(models.Reminder{
				Kind:         models.ReminderBudget,
				EntityID:     id,
				Title:        title,
				Body:         body,
				Hour:         now.Hour(),
				Minute:       now.Minute(),
				LastFiredDay: utils.FormatDate(now),
			})
		})
	}
	return nil
}

func (d *Dispatcher) deliver(report *Report, kind models.ReminderKind, id, title, body string, markFired func() error) {
	delivery := Delivery{Kind: kind, EntityID: id, Title: title, Body: body}

	if err := d.notifier.Notify(title, body); err != nil {
		logger.Warn("Failed to deliver reminder", "kind", kind, "id", id, "error", err)
		delivery.Err = err
		report.Failed = append(report.Failed, delivery)
		return
	}

	if !d.DryRun {
		if err := markFired(); err != nil {
			logger.Error("Failed to record reminder delivery", "kind", kind, "id", id, "error", err)
		}
	}
	logger.Info("Reminder delivered", "kind", kind, "id", id)
	report.Sent = append(report.Sent, delivery)
}
