package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/streak"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Habits struct{ *base }

// NewHabit holds the user supplied fields of a habit.
type NewHabit struct {
	Name         string
	Icon         string
	Frequency    models.HabitFrequency
	Weekdays     []time.Weekday
	ReminderTime string
}

// HabitStatus is a habit's state on a given day.
type HabitStatus struct {
	Habit     models.Habit
	Scheduled bool
	Done      bool
}

// DayStatus is one cell of a habit's history grid.
type DayStatus struct {
	Date      string
	Scheduled bool
	Done      bool
}

// Rate is the share of scheduled days on which a habit was completed.
type Rate struct {
	Completed int
	Scheduled int
}

func (r Rate) Percent() float64 {
	if r.Scheduled == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Scheduled) * 100
}

func validateHabit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: habit name is required", ErrInvalidInput)
	}
	if _, err := models.ParseHabitFrequency(string(h.Frequency)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if h.Frequency == models.FrequencyCustom && len(h.Weekdays) == 0 {
		return fmt.Errorf("%w: custom habits need at least one weekday", ErrInvalidInput)
	}
	if h.ReminderTime != "" && !utils.ValidateTimeFormat(h.ReminderTime) {
		return fmt.Errorf("%w: invalid reminder time %q (expected HH:MM)", ErrInvalidInput, h.ReminderTime)
	}
	return nil
}

func (s *Habits) ensureUniqueName(name, selfID string) error {
	existing, err := s.store.GetHabitByName(name)
	if err == nil && existing.ID != selfID {
		return fmt.Errorf("%w: habit %q", ErrDuplicate, name)
	}
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (s *Habits) Create(in NewHabit) (models.Habit, error) {
	habit := models.Habit{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Icon:         in.Icon,
		Frequency:    in.Frequency,
		ReminderTime: in.ReminderTime,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if habit.Icon == "" {
		habit.Icon = constants.DefaultHabitIcon
	}
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	if habit.Frequency == models.FrequencyCustom {
		habit.Weekdays = in.Weekdays
	}

	if err := validateHabit(habit); err != nil {
		return models.Habit{}, err
	}
	if err := s.ensureUniqueName(habit.Name, ""); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.AddHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}

	warnSchedule("habit", habit.ID, s.sched.ScheduleHabit(habit))
	return habit, nil
}

// Get looks a habit up by ID, falling back to its name.
func (s *Habits) Get(ref string) (models.Habit, error) {
	h, err := s.store.GetHabit(ref)
	if isNotFound(err) {
		h, err = s.store.GetHabitByName(ref)
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, err)
	}
	return h, nil
}

func (s *Habits) List(includeInactive bool) ([]models.Habit, error) {
	return s.store.GetHabits(includeInactive)
}

// MarkDone records a completion of habit id on today. The log and the
// updated streak counters are written in one transaction; marking the same
// day twice is a no-op reported through Result.Applied. A day before the
// habit's last completion is rejected.
func (s *Habits) MarkDone(id string, today time.Time) (streak.Result, error) {
	var result streak.Result

	err := s.store.WithTx(func(repo storage.Repository) error {
		habit, err := repo.GetHabit(id)
		if err != nil {
			return err
		}
		if !habit.Active {
			return fmt.Errorf("habit %q is paused: %w", habit.Name, ErrInactive)
		}
		date := utils.FormatDate(today)
		if habit.LastCompletedDate != "" && date < habit.LastCompletedDate {
			return fmt.Errorf("%w: %s is before the last completion of %q on %s",
				ErrInvalidInput, date, habit.Name, habit.LastCompletedDate)
		}

		var existing *models.HabitLog
		log, err := repo.GetHabitLog(id, date)
		switch {
		case err == nil:
			existing = &log
		case !isNotFound(err):
			return err
		}

		result = streak.RecordCompletion(habit, existing, today)
		if !result.Applied {
			return nil
		}
		if err := repo.PutHabitLog(result.Log); err != nil {
			return err
		}
		return repo.UpdateHabit(result.Habit)
	})
	if err != nil {
		return streak.Result{}, fmt.Errorf("failed to mark habit done: %w", err)
	}

	if result.Applied {
		warnSchedule("habit", id, s.sched.ScheduleHabit(result.Habit))
	}
	return result, nil
}

func (s *Habits) IsCompletedOn(id string, day time.Time) (bool, error) {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		return false, err
	}
	d := utils.FormatDate(day)
	logs, err := s.store.GetHabitLogsBetween(id, d, d)
	if err != nil {
		return false, err
	}
	return streak.IsCompletedOn(habit, logs, day), nil
}

// Today lists the active habits with their state on today.
func (s *Habits) Today(today time.Time) ([]HabitStatus, error) {
	habits, err := s.store.GetHabits(false)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.GetHabitLogsForDay(utils.FormatDate(today))
	if err != nil {
		return nil, err
	}

	statuses := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		statuses = append(statuses, HabitStatus{
			Habit:     h,
			Scheduled: utils.IsHabitScheduled(h, today),
			Done:      streak.IsCompletedOn(h, logs, today),
		})
	}
	return statuses, nil
}

// History returns the last days days of habit id, oldest first and ending
// on today.
func (s *Habits) History(id string, days int, today time.Time) ([]DayStatus, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	habit, err := s.store.GetHabit(id)
	if err != nil {
		return nil, err
	}

	start := utils.AddDays(today, -(days - 1))
	logs, err := s.store.GetHabitLogsBetween(id, utils.FormatDate(start), utils.FormatDate(today))
	if err != nil {
		return nil, err
	}

	history := make([]DayStatus, 0, days)
	for i := 0; i < days; i++ {
		d := utils.AddDays(start, i)
		history = append(history, DayStatus{
			Date:      utils.FormatDate(d),
			Scheduled: utils.IsHabitScheduled(habit, d),
			Done:      streak.IsCompletedOn(habit, logs, d),
		})
	}
	return history, nil
}

// CompletionRate counts completions of habit id over the last days days
// against the days on which it was scheduled.
func (s *Habits) CompletionRate(id string, days int, today time.Time) (Rate, error) {
	history, err := s.History(id, days, today)
	if err != nil {
		return Rate{}, err
	}

	since := history[0].Date
	completed, err := s.store.CountCompletionsSince(id, since)
	if err != nil {
		return Rate{}, err
	}

	rate := Rate{Completed: completed}
	for _, d := range history {
		if d.Scheduled {
			rate.Scheduled++
		}
	}
	return rate, nil
}

// Update saves the editable fields of h. Streak counters are left as
// stored.
func (s *Habits) Update(h models.Habit) (models.Habit, error) {
	current, err := s.store.GetHabit(h.ID)
	if err != nil {
		return models.Habit{}, err
	}

	current.Name = strings.TrimSpace(h.Name)
	current.Icon = h.Icon
	current.Frequency = h.Frequency
	current.Weekdays = nil
	if h.Frequency == models.FrequencyCustom {
		current.Weekdays = h.Weekdays
	}
	current.ReminderTime = h.ReminderTime
	current.Active = h.Active

	if err := validateHabit(current); err != nil {
		return models.Habit{}, err
	}
	if err := s.ensureUniqueName(current.Name, current.ID); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.UpdateHabit(current); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}

	warnSchedule("habit", current.ID, s.sched.ScheduleHabit(current))
	return current, nil
}

func (s *Habits) Pause(id string) (models.Habit, error) {
	return s.setActive(id, false)
}

func (s *Habits) Resume(id string) (models.Habit, error) {
	return s.setActive(id, true)
}

func (s *Habits) setActive(id string, active bool) (models.Habit, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	h.Active = active
	return s.Update(h)
}

// Delete removes the habit and all of its logs.
func (s *Habits) Delete(id string) error {
	err := s.store.WithTx(func(repo storage.Repository) error {
		return repo.DeleteHabit(id)
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("habit %q: %w", id, err)
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	warnSchedule("habit", id, s.sched.CancelHabit(id))
	return nil
}
