package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
)

func TestCreateHabit(t *testing.T) {
	tr, store := setup(t)

	h, err := tr.Habits.Create(NewHabit{Name: "  Read  ", ReminderTime: "07:30"})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "Read", h.Name)
	assert.Equal(t, models.FrequencyDaily, h.Frequency)
	assert.True(t, h.Active)
	assert.Equal(t, createdAt, h.CreatedAt)

	stored, err := store.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", stored.Name)
	assert.True(t, hasReminder(t, store, models.ReminderHabit, h.ID))
}

func TestCreateHabitValidation(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   NewHabit
		want error
	}{
		{"empty name", NewHabit{Name: "  "}, ErrInvalidInput},
		{"bad frequency", NewHabit{Name: "Run", Frequency: "hourly"}, ErrInvalidInput},
		{"custom without days", NewHabit{Name: "Run", Frequency: models.FrequencyCustom}, ErrInvalidInput},
		{"bad reminder", NewHabit{Name: "Run", ReminderTime: "7pm"}, ErrInvalidInput},
		{"duplicate", NewHabit{Name: "Read"}, ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Habits.Create(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMarkDoneStreak(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	for _, d := range []string{"2024-03-09", "2024-03-10", "2024-03-11"} {
		res, err := tr.Habits.MarkDone(h.ID, day(d))
		require.NoError(t, err)
		assert.True(t, res.Applied)
	}

	got, err := store.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, 3, got.TotalCompletions)
	assert.Equal(t, "2024-03-11", got.LastCompletedDate)

	res, err := tr.Habits.MarkDone(h.ID, day("2024-03-13"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Habit.CurrentStreak)
	assert.Equal(t, 3, res.Habit.LongestStreak)
	assert.Equal(t, 4, res.Habit.TotalCompletions)
}

func TestMarkDoneIsIdempotent(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	first, err := tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, first.Habit, second.Habit)

	logs, err := store.GetHabitLogs(h.ID, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	got, err := store.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalCompletions)
}

func TestMarkDoneRejectsBackfill(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	for _, d := range []string{"2024-03-09", "2024-03-10", "2024-03-12"} {
		_, err := tr.Habits.MarkDone(h.ID, day(d))
		require.NoError(t, err)
	}

	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := store.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", got.LastCompletedDate)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 3, got.TotalCompletions)

	done, err := tr.Habits.IsCompletedOn(h.ID, day("2024-03-11"))
	require.NoError(t, err)
	assert.False(t, done)

	res, err := tr.Habits.MarkDone(h.ID, day("2024-03-13"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Habit.CurrentStreak)
	assert.Equal(t, "2024-03-13", res.Habit.LastCompletedDate)
}

func TestMarkDoneReschedulesWithStreak(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read", ReminderTime: "07:30"})
	require.NoError(t, err)

	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)

	r, err := store.GetReminder(models.ReminderHabit, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Don't break your routine. 🔥 1 day streak!", r.Body)
}

func TestMarkDonePausedHabit(t *testing.T) {
	tr, _ := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)
	_, err = tr.Habits.Pause(h.ID)
	require.NoError(t, err)

	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	assert.ErrorIs(t, err, ErrInactive)
}

func TestMarkDoneUnknownHabit(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Habits.MarkDone("missing", day("2024-03-11"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// failingRepo fails habit updates so a completion dies after its log write.
type failingRepo struct{ storage.Repository }

func (failingRepo) UpdateHabit(models.Habit) error { return errors.New("disk full") }

type faultyStore struct{ *sqlite.Store }

func (f faultyStore) WithTx(fn func(storage.Repository) error) error {
	return f.Store.WithTx(func(repo storage.Repository) error {
		return fn(failingRepo{repo})
	})
}

func TestMarkDoneRollsBack(t *testing.T) {
	store := setupStore(t)
	good := New(store, nil)
	h, err := good.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	bad := New(faultyStore{store}, nil)
	_, err = bad.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.Error(t, err)

	_, err = store.GetHabitLog(h.ID, "2024-03-11")
	assert.ErrorIs(t, err, storage.ErrNotFound, "log write must be rolled back")
	got, err := store.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalCompletions)

	res, err := good.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Habit.TotalCompletions)
}

func TestHabitsToday(t *testing.T) {
	tr, _ := setup(t)
	read, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)
	_, err = tr.Habits.Create(NewHabit{Name: "Hike", Frequency: models.FrequencyWeekends})
	require.NoError(t, err)

	monday := day("2024-03-11")
	_, err = tr.Habits.MarkDone(read.ID, monday)
	require.NoError(t, err)

	statuses, err := tr.Habits.Today(monday)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := map[string]HabitStatus{}
	for _, s := range statuses {
		byName[s.Habit.Name] = s
	}
	assert.True(t, byName["Read"].Done)
	assert.True(t, byName["Read"].Scheduled)
	assert.False(t, byName["Hike"].Done)
	assert.False(t, byName["Hike"].Scheduled)

	done, err := tr.Habits.IsCompletedOn(read.ID, monday)
	require.NoError(t, err)
	assert.True(t, done)
	done, err = tr.Habits.IsCompletedOn(read.ID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, done)
}

func TestHabitHistoryAndRate(t *testing.T) {
	tr, _ := setup(t)
	h, err := tr.Habits.Create(NewHabit{
		Name:      "Gym",
		Frequency: models.FrequencyCustom,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
	})
	require.NoError(t, err)

	// 2024-03-04 and 2024-03-11 are Mondays.
	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-04"))
	require.NoError(t, err)
	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)

	history, err := tr.Habits.History(h.ID, 7, day("2024-03-11"))
	require.NoError(t, err)
	require.Len(t, history, 7)
	assert.Equal(t, "2024-03-05", history[0].Date)
	assert.Equal(t, "2024-03-11", history[6].Date)
	assert.True(t, history[6].Done)
	assert.True(t, history[1].Scheduled, "2024-03-06 is a Wednesday")
	assert.False(t, history[1].Done)

	rate, err := tr.Habits.CompletionRate(h.ID, 14, day("2024-03-11"))
	require.NoError(t, err)
	assert.Equal(t, 2, rate.Completed)
	assert.Equal(t, 4, rate.Scheduled)
	assert.InDelta(t, 50.0, rate.Percent(), 0.001)

	_, err = tr.Habits.History(h.ID, 0, day("2024-03-11"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateHabitKeepsStreak(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)
	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)

	edit := h
	edit.Name = "Read fiction"
	edit.CurrentStreak = 99
	edit.ReminderTime = "21:00"
	updated, err := tr.Habits.Update(edit)
	require.NoError(t, err)
	assert.Equal(t, "Read fiction", updated.Name)
	assert.Equal(t, 1, updated.CurrentStreak)

	r, err := store.GetReminder(models.ReminderHabit, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 21, r.Hour)
}

func TestUpdateHabitDuplicateName(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)
	run, err := tr.Habits.Create(NewHabit{Name: "Run"})
	require.NoError(t, err)

	run.Name = "Read"
	_, err = tr.Habits.Update(run)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPauseResumeHabit(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)

	_, err = tr.Habits.Pause(h.ID)
	require.NoError(t, err)
	assert.False(t, hasReminder(t, store, models.ReminderHabit, h.ID))

	active, err := tr.Habits.List(false)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = tr.Habits.Resume(h.ID)
	require.NoError(t, err)
	assert.True(t, hasReminder(t, store, models.ReminderHabit, h.ID))
}

func TestDeleteHabit(t *testing.T) {
	tr, store := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)
	_, err = tr.Habits.MarkDone(h.ID, day("2024-03-11"))
	require.NoError(t, err)

	require.NoError(t, tr.Habits.Delete(h.ID))

	_, err = store.GetHabit(h.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	logs, err := store.GetAllHabitLogs()
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.False(t, hasReminder(t, store, models.ReminderHabit, h.ID))

	assert.ErrorIs(t, tr.Habits.Delete(h.ID), storage.ErrNotFound)
}

func TestGetHabitByNameOrID(t *testing.T) {
	tr, _ := setup(t)
	h, err := tr.Habits.Create(NewHabit{Name: "Read"})
	require.NoError(t, err)

	byID, err := tr.Habits.Get(h.ID)
	require.NoError(t, err)
	byName, err := tr.Habits.Get("Read")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byName.ID)

	_, err = tr.Habits.Get("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNilSchedulerIsNoop(t *testing.T) {
	store := setupStore(t)
	tr := New(store, nil)
	h, err := tr.Habits.Create(NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)
	assert.False(t, hasReminder(t, store, models.ReminderHabit, h.ID))
	assert.IsType(t, reminder.Noop{}, tr.Habits.sched)
}
