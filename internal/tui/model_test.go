package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/tui/components/budget"
	"github.com/julianstephens/lifeflow/internal/tui/components/groceries"
	"github.com/julianstephens/lifeflow/internal/tui/components/habits"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (Model, *cli.Context) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeflow.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	ctx := &cli.Context{
		Store:     store,
		Scheduler: reminder.Noop{},
		Timezone:  "UTC",
		Clock:     func() time.Time { return now },
	}
	m, err := NewModel(ctx)
	require.NoError(t, err)
	return m, ctx
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestMarkHabitUpdatesStreak(t *testing.T) {
	m, ctx := setup(t)
	tr, err := ctx.Tracker()
	require.NoError(t, err)

	h, err := tr.Habits.Create(tracker.NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)

	m = update(t, m, habits.MarkHabitMsg{ID: h.ID})
	require.False(t, m.statusErr, m.status)
	require.Contains(t, m.status, "1 day streak")

	stored, err := ctx.Store.GetHabit(h.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.CurrentStreak)
	require.Equal(t, "2024-03-15", stored.LastCompletedDate)
}

func TestMarkHabitTwiceReportsAlreadyDone(t *testing.T) {
	m, ctx := setup(t)
	tr, err := ctx.Tracker()
	require.NoError(t, err)

	h, err := tr.Habits.Create(tracker.NewHabit{Name: "Read", ReminderTime: "07:00"})
	require.NoError(t, err)

	m = update(t, m, habits.MarkHabitMsg{ID: h.ID})
	m = update(t, m, habits.MarkHabitMsg{ID: h.ID})
	require.False(t, m.statusErr, m.status)
	require.Contains(t, m.status, "already done")
	require.NotContains(t, m.status, "✓")

	stored, err := ctx.Store.GetHabit(h.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.TotalCompletions)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, ctx := setup(t)
	tr, err := ctx.Tracker()
	require.NoError(t, err)

	item, err := tr.Groceries.Add("Milk", "2 l", "")
	require.NoError(t, err)

	m = update(t, m, groceries.DeleteItemMsg{ID: item.ID, Name: item.Name})
	require.Equal(t, constants.StateConfirmDelete, m.state)

	// Declining keeps the item.
	require.NoError(t, m.submitForm())
	m.closeForm()
	require.Equal(t, constants.StateHabits, m.state)
	_, err = ctx.Store.GetGroceryItem(item.ID)
	require.NoError(t, err)

	m = update(t, m, groceries.DeleteItemMsg{ID: item.ID, Name: item.Name})
	m.confirmForm.Confirmed = true
	require.NoError(t, m.submitForm())
	m.closeForm()

	_, err = ctx.Store.GetGroceryItem(item.ID)
	require.Error(t, err)
}

func TestEscapeClosesForm(t *testing.T) {
	m, _ := setup(t)

	m = update(t, m, groceries.AddItemMsg{})
	require.Equal(t, constants.StateAddGrocery, m.state)
	require.NotNil(t, m.form)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, constants.StateHabits, m.state)
	require.Nil(t, m.form)
}

func TestTabsCycle(t *testing.T) {
	m, _ := setup(t)

	for _, want := range []constants.SessionState{
		constants.StateChores, constants.StateTasks, constants.StateGroceries, constants.StateBudget, constants.StateHabits,
	} {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		require.Equal(t, want, m.state)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, constants.StateBudget, m.state)
}

func TestShiftBudgetMonth(t *testing.T) {
	m, _ := setup(t)
	require.Equal(t, "2024-03", m.budgetModel.Month())

	m = update(t, m, budget.ShiftMonthMsg{Delta: -1})
	require.False(t, m.statusErr, m.status)
	require.Equal(t, "2024-02", m.budgetModel.Month())

	m = update(t, m, budget.ShiftMonthMsg{Delta: 11})
	require.Equal(t, "2025-01", m.budgetModel.Month())
}

func TestShiftMonth(t *testing.T) {
	got, err := shiftMonth("2024-01", -1)
	require.NoError(t, err)
	require.Equal(t, "2023-12", got)

	_, err = shiftMonth("not-a-month", 1)
	require.Error(t, err)
}
