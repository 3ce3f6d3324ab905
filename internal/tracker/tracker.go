// Package tracker implements the user-facing operations of each tracker on
// top of the storage layer, the streak and recurrence engines and the
// reminder scheduler.
package tracker

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
)

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned when a unique name is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInactive is returned when acting on a paused habit or chore.
	ErrInactive = errors.New("inactive")
)

// Tracker groups the services for every tracker over one store. The services
// share their store, scheduler and clock.
type Tracker struct {
	Habits    *Habits
	Chores    *Chores
	Tasks     *Tasks
	Groceries *Groceries
	Budget    *Budget
}

// New wires all services to store. A nil scheduler disables reminders.
func New(store storage.Provider, sched reminder.Scheduler) *Tracker {
	b := newBase(store, sched)
	return &Tracker{
		Habits:    &Habits{b},
		Chores:    &Chores{b},
		Tasks:     &Tasks{b},
		Groceries: &Groceries{b},
		Budget:    &Budget{b},
	}
}

// SetClock replaces the source of creation timestamps for every service.
func (t *Tracker) SetClock(now func() time.Time) {
	t.Habits.now = now
}

type base struct {
	store storage.Provider
	sched reminder.Scheduler
	now   func() time.Time
	newID func() string
}

func newBase(store storage.Provider, sched reminder.Scheduler) *base {
	if sched == nil {
		sched = reminder.Noop{}
	}
	return &base{
		store: store,
		sched: sched,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// warnSchedule logs reminder failures. Scheduling never fails the tracker
// operation that triggered it.
func warnSchedule(kind, id string, err error) {
	if err != nil {
		logger.Warn("Failed to update reminder", "kind", kind, "id", id, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
