package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/storage"
)

func TestCreateChore(t *testing.T) {
	tr, store := setup(t)

	c, err := tr.Chores.Create(NewChore{Name: "Mop floors", Room: models.RoomKitchen, Frequency: models.ChoreWeekly, ReminderHour: 9})
	require.NoError(t, err)
	assert.Empty(t, c.NextDueDate)
	assert.True(t, hasReminder(t, store, models.ReminderChore, c.ID))

	defaults, err := tr.Chores.Create(NewChore{Name: "Dust", FirstDue: "2024-03-12"})
	require.NoError(t, err)
	assert.Equal(t, models.RoomGeneral, defaults.Room)
	assert.Equal(t, models.ChoreWeekly, defaults.Frequency)
	assert.Equal(t, "2024-03-12", defaults.NextDueDate)
}

func TestCreateChoreValidation(t *testing.T) {
	tr, _ := setup(t)

	tests := []struct {
		name string
		in   NewChore
	}{
		{"empty name", NewChore{Name: ""}},
		{"bad room", NewChore{Name: "x", Room: "attic"}},
		{"bad frequency", NewChore{Name: "x", Frequency: "yearly"}},
		{"bad hour", NewChore{Name: "x", ReminderHour: 24}},
		{"bad due date", NewChore{Name: "x", FirstDue: "12/03/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Chores.Create(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestMarkChoreDone(t *testing.T) {
	tests := []struct {
		freq     models.ChoreFrequency
		done     string
		wantNext string
	}{
		{models.ChoreDaily, "2024-03-04", "2024-03-05"},
		{models.ChoreEvery2Days, "2024-03-04", "2024-03-06"},
		{models.ChoreWeekly, "2024-03-04", "2024-03-11"},
		{models.ChoreBiweekly, "2024-03-04", "2024-03-18"},
		{models.ChoreMonthly, "2024-01-31", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			tr, store := setup(t)
			c, err := tr.Chores.Create(NewChore{Name: "Chore", Frequency: tt.freq})
			require.NoError(t, err)

			updated, err := tr.Chores.MarkDone(c.ID, day(tt.done))
			require.NoError(t, err)
			assert.Equal(t, tt.done, updated.LastDoneDate)
			assert.Equal(t, tt.wantNext, updated.NextDueDate)

			stored, err := store.GetChore(c.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, stored.NextDueDate)
		})
	}
}

func TestMarkChoreDoneInactive(t *testing.T) {
	tr, _ := setup(t)
	c, err := tr.Chores.Create(NewChore{Name: "Chore"})
	require.NoError(t, err)
	c.Active = false
	_, err = tr.Chores.Update(c)
	require.NoError(t, err)

	_, err = tr.Chores.MarkDone(c.ID, day("2024-03-04"))
	assert.ErrorIs(t, err, ErrInactive)
}

func TestOverdueAndDue(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Chores.Create(NewChore{Name: "Past", FirstDue: "2024-03-01"})
	require.NoError(t, err)
	_, err = tr.Chores.Create(NewChore{Name: "Today", FirstDue: "2024-03-02"})
	require.NoError(t, err)
	_, err = tr.Chores.Create(NewChore{Name: "Later", FirstDue: "2024-03-09"})
	require.NoError(t, err)
	_, err = tr.Chores.Create(NewChore{Name: "Undated"})
	require.NoError(t, err)

	overdue, err := tr.Chores.Overdue(day("2024-03-02"))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Past", overdue[0].Name)

	due, err := tr.Chores.Due(day("2024-03-02"))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "Past", due[0].Name)
	assert.Equal(t, "Today", due[1].Name)

	all, err := tr.Chores.List(false)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Undated", all[3].Name)
}

func TestUpdateChoreFrequencyReconciles(t *testing.T) {
	tr, _ := setup(t)
	c, err := tr.Chores.Create(NewChore{Name: "Bins", Frequency: models.ChoreWeekly})
	require.NoError(t, err)
	c, err = tr.Chores.MarkDone(c.ID, day("2024-03-04"))
	require.NoError(t, err)

	c.Frequency = models.ChoreBiweekly
	c.NextDueDate = "2030-01-01"
	updated, err := tr.Chores.Update(c)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", updated.LastDoneDate)
	assert.Equal(t, "2024-03-18", updated.NextDueDate)
}

func TestUpdateNeverDoneChoreSetsDueDate(t *testing.T) {
	tr, _ := setup(t)
	c, err := tr.Chores.Create(NewChore{Name: "Windows"})
	require.NoError(t, err)

	c.NextDueDate = "2024-04-01"
	updated, err := tr.Chores.Update(c)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", updated.NextDueDate)
}

func TestDeleteChore(t *testing.T) {
	tr, store := setup(t)
	c, err := tr.Chores.Create(NewChore{Name: "Chore"})
	require.NoError(t, err)

	require.NoError(t, tr.Chores.Delete(c.ID))
	_, err = store.GetChore(c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, hasReminder(t, store, models.ReminderChore, c.ID))

	assert.ErrorIs(t, tr.Chores.Delete(c.ID), storage.ErrNotFound)
}
