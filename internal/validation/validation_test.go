package validation

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
)

func hasConflict(result ValidationResult, typ ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func TestValidateHabits_Clean(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "1", Name: "Read", Frequency: models.FrequencyDaily, ReminderTime: "07:00", CurrentStreak: 2, LongestStreak: 5, TotalCompletions: 2, LastCompletedDate: "2024-03-11"},
	}
	logs := []models.HabitLog{
		{ID: "a", HabitID: "1", Date: "2024-03-10", Completed: true},
		{ID: "b", HabitID: "1", Date: "2024-03-11", Completed: true},
	}

	result := validator.ValidateHabits(habits, logs)
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("Unexpected report: %q", result.FormatReport())
	}
}

func TestValidateHabits_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		logs  []models.HabitLog
		want  ConflictType
	}{
		{
			name:  "longest below current",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily, CurrentStreak: 4, LongestStreak: 3, TotalCompletions: 4},
			want:  ConflictStreakCounters,
		},
		{
			name:  "negative streak",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily, CurrentStreak: -1},
			want:  ConflictStreakCounters,
		},
		{
			name:  "completions below logs",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily},
			logs:  []models.HabitLog{{ID: "a", HabitID: "1", Date: "2024-03-10", Completed: true}},
			want:  ConflictCompletionCount,
		},
		{
			name:  "custom without weekdays",
			habit: models.Habit{ID: "1", Name: "Gym", Frequency: models.FrequencyCustom},
			want:  ConflictMissingWeekdays,
		},
		{
			name:  "bad reminder time",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily, ReminderTime: "25:00"},
			want:  ConflictInvalidDateTime,
		},
		{
			name:  "bad log date",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily},
			logs:  []models.HabitLog{{ID: "a", HabitID: "1", Date: "10/03/2024"}},
			want:  ConflictInvalidDateTime,
		},
		{
			name: "last completion behind logs",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily, CurrentStreak: 1, LongestStreak: 2,
				TotalCompletions: 3, LastCompletedDate: "2024-03-11"},
			logs: []models.HabitLog{
				{ID: "a", HabitID: "1", Date: "2024-03-10", Completed: true},
				{ID: "b", HabitID: "1", Date: "2024-03-11", Completed: true},
				{ID: "c", HabitID: "1", Date: "2024-03-12", Completed: true},
			},
			want: ConflictLastCompleted,
		},
		{
			name:  "orphaned log",
			habit: models.Habit{ID: "1", Name: "Read", Frequency: models.FrequencyDaily},
			logs:  []models.HabitLog{{ID: "a", HabitID: "gone", Date: "2024-03-10", Completed: true}},
			want:  ConflictOrphanedLog,
		},
	}

	validator := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateHabits([]models.Habit{tt.habit}, tt.logs)
			if !hasConflict(result, tt.want) {
				t.Errorf("Expected %s conflict, got: %s", tt.want, result.FormatReport())
			}
		})
	}
}

func TestValidateHabits_DuplicateNames(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "1", Name: "Read", Frequency: models.FrequencyDaily},
		{ID: "2", Name: "Walk", Frequency: models.FrequencyDaily},
		{ID: "3", Name: "Read", Frequency: models.FrequencyDaily},
	}

	result := validator.ValidateHabits(habits, nil)
	if len(result.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.Type != ConflictDuplicateHabitName {
		t.Errorf("Expected ConflictDuplicateHabitName, got %s", c.Type)
	}
	if len(c.IDs) != 2 {
		t.Errorf("Expected 2 IDs, got %v", c.IDs)
	}
	if !strings.Contains(result.FormatReport(), `"Read"`) {
		t.Errorf("Expected report to name the habit, got %q", result.FormatReport())
	}
}

func TestValidateChores(t *testing.T) {
	validator := New()

	chores := []models.Chore{
		{ID: "1", Name: "Mop", Frequency: models.ChoreWeekly, LastDoneDate: "2024-03-04", NextDueDate: "2024-03-11"},
		{ID: "2", Name: "Dust", Frequency: models.ChoreWeekly},
		{ID: "3", Name: "Bins", Frequency: models.ChoreDaily, NextDueDate: "2024-03-20"},
		{ID: "4", Name: "Oven", Frequency: models.ChoreMonthly, LastDoneDate: "2024-01-31", NextDueDate: "2024-03-02"},
		{ID: "5", Name: "Sheets", Frequency: models.ChoreWeekly, LastDoneDate: "yesterday"},
	}

	result := validator.ValidateChores(chores)
	if len(result.Conflicts) != 2 {
		t.Fatalf("Expected 2 conflicts, got: %s", result.FormatReport())
	}
	if result.Conflicts[0].Type != ConflictChoreDueDate || result.Conflicts[0].IDs[0] != "4" {
		t.Errorf("Expected due date conflict for Oven, got %+v", result.Conflicts[0])
	}
	if !strings.Contains(result.Conflicts[0].Description, "2024-02-29") {
		t.Errorf("Expected the reconciled date in %q", result.Conflicts[0].Description)
	}
	if result.Conflicts[1].Type != ConflictInvalidDateTime {
		t.Errorf("Expected invalid date conflict, got %s", result.Conflicts[1].Type)
	}
}

func TestValidateReminders(t *testing.T) {
	validator := New()

	reminders := []models.Reminder{
		{Kind: models.ReminderHabit, EntityID: "h1", Title: "Read"},
		{Kind: models.ReminderChore, EntityID: "c9", Title: "Mop"},
		{Kind: models.ReminderTask, EntityID: "t1", Title: "Paper"},
		{Kind: models.ReminderSummary, EntityID: "daily", Title: "Summary"},
	}

	result := validator.ValidateReminders(reminders,
		[]models.Habit{{ID: "h1"}},
		[]models.Chore{{ID: "c1"}},
		[]models.Task{{ID: "t1"}},
	)
	if len(result.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got: %s", result.FormatReport())
	}
	c := result.Conflicts[0]
	if c.Type != ConflictOrphanedReminder || c.Kind != models.ReminderChore || c.IDs[0] != "c9" {
		t.Errorf("Unexpected conflict: %+v", c)
	}
}

func TestValidateAllAndAutoFix(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeflow.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	habit := models.Habit{
		ID: "h1", Name: "Read", Icon: "📚", Frequency: models.FrequencyDaily, ReminderTime: "07:00",
		Active: true, CreatedAt: created, CurrentStreak: 3, LongestStreak: 1, TotalCompletions: 0,
		LastCompletedDate: "2024-03-11",
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	for _, d := range []string{"2024-03-10", "2024-03-11"} {
		if err := store.PutHabitLog(models.HabitLog{HabitID: "h1", Date: d, Completed: true}); err != nil {
			t.Fatalf("PutHabitLog failed: %v", err)
		}
	}
	chore := models.Chore{
		ID: "c1", Name: "Mop", Room: models.RoomKitchen, Frequency: models.ChoreWeekly, ReminderHour: 9,
		LastDoneDate: "2024-03-04", NextDueDate: "2024-03-05", Active: true, CreatedAt: created,
	}
	if err := store.AddChore(chore); err != nil {
		t.Fatalf("AddChore failed: %v", err)
	}
	if err := store.PutReminder(models.Reminder{Kind: models.ReminderTask, EntityID: "gone", Title: "Old", Hour: 9}); err != nil {
		t.Fatalf("PutReminder failed: %v", err)
	}

	validator := New()
	result, err := validator.ValidateAll(store)
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	for _, typ := range []ConflictType{ConflictStreakCounters, ConflictCompletionCount, ConflictChoreDueDate, ConflictOrphanedReminder} {
		if !hasConflict(result, typ) {
			t.Errorf("Expected %s conflict, got: %s", typ, result.FormatReport())
		}
	}

	actions, err := AutoFix(store, result.Conflicts)
	if err != nil {
		t.Fatalf("AutoFix failed: %v", err)
	}
	if len(actions) != 4 {
		t.Errorf("Expected 4 fix actions, got %d", len(actions))
	}

	got, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.LongestStreak != 3 || got.TotalCompletions != 2 {
		t.Errorf("Expected longest 3 and total 2, got %d and %d", got.LongestStreak, got.TotalCompletions)
	}
	gotChore, err := store.GetChore("c1")
	if err != nil {
		t.Fatalf("GetChore failed: %v", err)
	}
	if gotChore.NextDueDate != "2024-03-11" {
		t.Errorf("Expected next due 2024-03-11, got %s", gotChore.NextDueDate)
	}

	result, err = validator.ValidateAll(store)
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts after fix, got: %s", result.FormatReport())
	}
}
