package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Chores struct{ *base }

// NewChore holds the user supplied fields of a chore. FirstDue is optional;
// a chore without one has no due date until it is first done.
type NewChore struct {
	Name         string
	Room         models.ChoreRoom
	Frequency    models.ChoreFrequency
	ReminderHour int
	FirstDue     string
}

func validateChore(c models.Chore) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: chore name is required", ErrInvalidInput)
	}
	if _, err := models.ParseChoreRoom(string(c.Room)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := models.ParseChoreFrequency(string(c.Frequency)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("%w: reminder hour must be between 0 and 23", ErrInvalidInput)
	}
	for _, d := range []string{c.LastDoneDate, c.NextDueDate} {
		if d == "" {
			continue
		}
		if _, err := utils.ParseDate(d); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

func (s *Chores) Create(in NewChore) (models.Chore, error) {
	chore := models.Chore{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Room:         in.Room,
		Frequency:    in.Frequency,
		ReminderHour: in.ReminderHour,
		NextDueDate:  in.FirstDue,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if chore.Room == "" {
		chore.Room = models.RoomGeneral
	}
	if chore.Frequency == "" {
		chore.Frequency = models.ChoreWeekly
	}

	if err := validateChore(chore); err != nil {
		return models.Chore{}, err
	}
	if err := s.store.AddChore(chore); err != nil {
		return models.Chore{}, fmt.Errorf("failed to add chore: %w", err)
	}

	warnSchedule("chore", chore.ID, s.sched.ScheduleChore(chore))
	return chore, nil
}

func (s *Chores) Get(id string) (models.Chore, error) {
	c, err := s.store.GetChore(id)
	if err != nil {
		return models.Chore{}, fmt.Errorf("chore %q: %w", id, err)
	}
	return c, nil
}

// List returns chores ordered by next due date, undated chores last.
func (s *Chores) List(includeInactive bool) ([]models.Chore, error) {
	return s.store.GetChores(includeInactive)
}

// MarkDone records chore id as done on today and rolls its due date
// forward in one transaction.
func (s *Chores) MarkDone(id string, today time.Time) (models.Chore, error) {
	var updated models.Chore

	err := s.store.WithTx(func(repo storage.Repository) error {
		chore, err := repo.GetChore(id)
		if err != nil {
			return err
		}
		if !chore.Active {
			return fmt.Errorf("chore %q is paused: %w", chore.Name, ErrInactive)
		}
		updated = recurrence.RecordDone(chore, today)
		return repo.UpdateChore(updated)
	})
	if err != nil {
		return models.Chore{}, fmt.Errorf("failed to mark chore done: %w", err)
	}

	warnSchedule("chore", id, s.sched.ScheduleChore(updated))
	return updated, nil
}

func (s *Chores) Overdue(today time.Time) ([]models.Chore, error) {
	return s.store.GetOverdueChores(utils.FormatDate(today))
}

// Due returns the active chores due today or earlier.
func (s *Chores) Due(today time.Time) ([]models.Chore, error) {
	chores, err := s.store.GetChores(false)
	if err != nil {
		return nil, err
	}
	var due []models.Chore
	for _, c := range chores {
		if recurrence.IsDue(c, today) {
			due = append(due, c)
		}
	}
	return due, nil
}

// Update saves the editable fields of c. A frequency change moves the next
// due date so that it stays one interval after the last completion.
func (s *Chores) Update(c models.Chore) (models.Chore, error) {
	current, err := s.store.GetChore(c.ID)
	if err != nil {
		return models.Chore{}, err
	}

	current.Name = strings.TrimSpace(c.Name)
	current.Room = c.Room
	current.ReminderHour = c.ReminderHour
	current.Active = c.Active
	if c.Frequency != current.Frequency {
		current.Frequency = c.Frequency
		if current, err = recurrence.Reconcile(current); err != nil {
			return models.Chore{}, err
		}
	}
	if current.LastDoneDate == "" {
		current.NextDueDate = c.NextDueDate
	}

	if err := validateChore(current); err != nil {
		return models.Chore{}, err
	}
	if err := s.store.UpdateChore(current); err != nil {
		return models.Chore{}, fmt.Errorf("failed to update chore: %w", err)
	}

	warnSchedule("chore", current.ID, s.sched.ScheduleChore(current))
	return current, nil
}

func (s *Chores) Delete(id string) error {
	if err := s.store.DeleteChore(id); err != nil {
		return fmt.Errorf("chore %q: %w", id, err)
	}
	warnSchedule("chore", id, s.sched.CancelChore(id))
	return nil
}
