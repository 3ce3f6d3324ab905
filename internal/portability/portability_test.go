package portability

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
	"github.com/julianstephens/lifeflow/internal/tracker"
)

var exportedAt = time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeflow.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

// seed fills store with one record of every kind.
func seed(t *testing.T, store storage.Provider) {
	t.Helper()
	tr := tracker.New(store, nil)
	tr.SetClock(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })

	settings := models.DefaultSettings()
	settings.CurrencySymbol = "€"
	require.NoError(t, store.SaveSettings(settings))

	h, err := tr.Habits.Create(tracker.NewHabit{
		Name:         "Gym",
		Frequency:    models.FrequencyCustom,
		Weekdays:     []time.Weekday{time.Monday, time.Thursday},
		ReminderTime: "18:00",
	})
	require.NoError(t, err)
	_, err = tr.Habits.MarkDone(h.ID, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	c, err := tr.Chores.Create(tracker.NewChore{Name: "Mop", Room: models.RoomKitchen, Frequency: models.ChoreWeekly, ReminderHour: 9})
	require.NoError(t, err)
	_, err = tr.Chores.MarkDone(c.ID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	deadline := time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)
	_, err = tr.Tasks.Create(tracker.NewTask{Title: "Draft chapter", Category: models.CategoryPaperWriting, Priority: models.PriorityHigh, Deadline: &deadline})
	require.NoError(t, err)

	_, err = tr.Groceries.Add("Oat milk", "2", "Dairy")
	require.NoError(t, err)

	_, err = tr.Budget.AddTransaction(tracker.NewTransaction{Title: "Rent", Amount: 700, Category: models.ExpenseRent, Date: "2024-03-01"})
	require.NoError(t, err)
	_, err = tr.Budget.SetGoal(models.ExpenseDining, 80, "2024-03")
	require.NoError(t, err)
}

func roundTrip(t *testing.T, snap *Snapshot, format Format) *Snapshot {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap, format))
	decoded, err := Decode(&buf, format)
	require.NoError(t, err)
	return decoded
}

func assertSameData(t *testing.T, want, got *Snapshot) {
	t.Helper()
	assert.Equal(t, want.Settings, got.Settings)
	assert.Equal(t, want.Habits, got.Habits)
	assert.Equal(t, want.HabitLogs, got.HabitLogs)
	assert.Equal(t, want.Chores, got.Chores)
	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.Groceries, got.Groceries)
	assert.Equal(t, want.Transactions, got.Transactions)
	assert.Equal(t, want.BudgetGoals, got.BudgetGoals)
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			src := setupStore(t)
			seed(t, src)

			snap, err := Export(src, exportedAt)
			require.NoError(t, err)
			assert.Equal(t, FormatVersion, snap.Version)
			assert.Len(t, snap.Habits, 1)
			assert.Len(t, snap.HabitLogs, 1)

			dst := setupStore(t)
			report, err := Import(dst, roundTrip(t, snap, format), Options{
				Mode:      ModeMerge,
				Scheduler: reminder.NewStoreScheduler(dst, time.UTC),
			})
			require.NoError(t, err)
			assert.Equal(t, 7, report.Inserted)
			assert.Zero(t, report.Updated)

			got, err := Export(dst, exportedAt)
			require.NoError(t, err)
			assertSameData(t, snap, got)

			_, err = dst.GetReminder(models.ReminderHabit, snap.Habits[0].ID)
			assert.NoError(t, err, "imported habits get their reminder")
		})
	}
}

func TestImportModes(t *testing.T) {
	src := setupStore(t)
	seed(t, src)
	snap, err := Export(src, exportedAt)
	require.NoError(t, err)

	t.Run("merge updates", func(t *testing.T) {
		report, err := Import(src, snap, Options{Mode: ModeMerge})
		require.NoError(t, err)
		assert.Zero(t, report.Inserted)
		assert.Equal(t, 7, report.Updated)
	})

	t.Run("skip keeps existing", func(t *testing.T) {
		changed := *snap
		changed.Habits = []models.Habit{snap.Habits[0]}
		changed.Habits[0].Name = "Renamed"

		report, err := Import(src, &changed, Options{Mode: ModeSkip})
		require.NoError(t, err)
		assert.Equal(t, 7, report.Skipped)

		h, err := src.GetHabit(snap.Habits[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Gym", h.Name)
	})

	t.Run("fail aborts", func(t *testing.T) {
		_, err := Import(src, snap, Options{Mode: ModeFail})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, src.AddGroceryItem(models.GroceryItem{ID: "extra", Name: "Bread", Category: "Bakery", AddedAt: exportedAt}))

		report, err := Import(src, snap, Options{Mode: ModeReplace})
		require.NoError(t, err)
		assert.Equal(t, 6, report.Deleted)
		assert.Equal(t, 6, report.Inserted)
		assert.Equal(t, 1, report.Updated, "budget goals are overwritten in place")

		items, err := src.GetGroceryItems(false)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestImportDryRun(t *testing.T) {
	src := setupStore(t)
	seed(t, src)
	snap, err := Export(src, exportedAt)
	require.NoError(t, err)

	dst := setupStore(t)
	report, err := Import(dst, snap, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 7, report.Inserted)

	habits, err := dst.GetHabits(true)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestImportIsAtomic(t *testing.T) {
	src := setupStore(t)
	seed(t, src)
	snap, err := Export(src, exportedAt)
	require.NoError(t, err)

	snap.Transactions[0].Amount = -1

	dst := setupStore(t)
	_, err = Import(dst, snap, Options{})
	require.Error(t, err)

	habits, err := dst.GetHabits(true)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"newer version", FormatYAML, "version: 99\n"},
		{"missing version", FormatJSON, `{"habits": []}`},
		{"unknown field yaml", FormatYAML, "version: 1\nplans: []\n"},
		{"unknown field json", FormatJSON, `{"version": 1, "plans": []}`},
		{"garbage", FormatJSON, `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("backup.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("backup.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("backup"))

	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)

	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeMerge, m)
	_, err = ParseMode("overwrite")
	assert.Error(t, err)
}
