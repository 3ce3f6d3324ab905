// Package reminder persists scheduled reminders and delivers the ones that
// are due.
package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/utils"
)

// Scheduler keeps reminders in step with the tracked entities. Scheduling an
// inactive or completed entity cancels its reminder.
type Scheduler interface {
	ScheduleHabit(models.Habit) error
	CancelHabit(id string) error
	ScheduleChore(models.Chore) error
	CancelChore(id string) error
	ScheduleTask(models.Task) error
	CancelTask(id string) error
}

// StoreScheduler writes reminders to the repository for a later Dispatcher
// run.
type StoreScheduler struct {
	repo storage.Repository
	loc  *time.Location
}

var _ Scheduler = (*StoreScheduler)(nil)

func NewStoreScheduler(repo storage.Repository, loc *time.Location) *StoreScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &StoreScheduler{repo: repo, loc: loc}
}

func (s *StoreScheduler) ScheduleHabit(h models.Habit) error {
	if !h.Active || h.ReminderTime == "" {
		return s.CancelHabit(h.ID)
	}

	minutes, err := utils.ParseTimeToMinutes(h.ReminderTime)
	if err != nil {
		return fmt.Errorf("habit %s: %w", h.ID, err)
	}

	return s.repo.PutReminder(models.Reminder{
		Kind:     models.ReminderHabit,
		EntityID: h.ID,
		Title:    HabitTitle(h),
		Body:     HabitBody(h),
		Hour:     minutes / 60,
		Minute:   minutes % 60,
	})
}

func (s *StoreScheduler) CancelHabit(id string) error {
	return s.repo.DeleteReminder(models.ReminderHabit, id)
}

func (s *StoreScheduler) ScheduleChore(c models.Chore) error {
	if !c.Active {
		return s.CancelChore(c.ID)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("chore %s: reminder hour %d out of range", c.ID, c.ReminderHour)
	}

	return s.repo.PutReminder(models.Reminder{
		Kind:     models.ReminderChore,
		EntityID: c.ID,
		Title:    ChoreTitle(c),
		Body:     ChoreBody(c),
		Hour:     c.ReminderHour,
	})
}

func (s *StoreScheduler) CancelChore(id string) error {
	return s.repo.DeleteReminder(models.ReminderChore, id)
}

// ScheduleTask sets a one-shot reminder on the task's reminder day.
// Rescheduling clears any earlier delivery.
func (s *StoreScheduler) ScheduleTask(t models.Task) error {
	if t.Completed || t.ReminderAt == nil {
		return s.CancelTask(t.ID)
	}

	at := t.ReminderAt.In(s.loc)
	if err := s.CancelTask(t.ID); err != nil {
		return err
	}
	return s.repo.PutReminder(models.Reminder{
		Kind:     models.ReminderTask,
		EntityID: t.ID,
		Title:    TaskTitle(t),
		Body:     TaskBody(t, s.loc),
		Hour:     at.Hour(),
		Minute:   at.Minute(),
		Day:      at.Format(constants.DateFormat),
	})
}

func (s *StoreScheduler) CancelTask(id string) error {
	return s.repo.DeleteReminder(models.ReminderTask, id)
}

// Noop is a Scheduler that does nothing.
type Noop struct{}

func (Noop) ScheduleHabit(models.Habit) error { return nil }
func (Noop) CancelHabit(string) error         { return nil }
func (Noop) ScheduleChore(models.Chore) error { return nil }
func (Noop) CancelChore(string) error         { return nil }
func (Noop) ScheduleTask(models.Task) error   { return nil }
func (Noop) CancelTask(string) error          { return nil }

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
