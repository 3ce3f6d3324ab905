package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictStreakCounters     ConflictType = "streak_counters"
	ConflictCompletionCount    ConflictType = "completion_count"
	ConflictMissingWeekdays    ConflictType = "missing_weekdays"
	ConflictInvalidDateTime    ConflictType = "invalid_datetime"
	ConflictChoreDueDate       ConflictType = "chore_due_date"
	ConflictLastCompleted      ConflictType = "last_completed"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictOrphanedLog        ConflictType = "orphaned_log"
	ConflictOrphanedReminder   ConflictType = "orphaned_reminder"
)

// Conflict is one broken data invariant.
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // names of the records involved
	IDs         []string // IDs of the records involved, used by Fix
	Kind        models.ReminderKind
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks stored data against the invariants the trackers rely on.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks streak counters, schedules and logs.
func (v *Validator) ValidateHabits(habits []models.Habit, logs []models.HabitLog) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	byName := make(map[string][]string)
	for _, h := range habits {
		byID[h.ID] = h
		byName[h.Name] = append(byName[h.Name], h.ID)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}

	completed := make(map[string]int)
	latest := make(map[string]string)
	for _, l := range logs {
		if _, ok := byID[l.HabitID]; !ok {
			result.add(Conflict{
				Type:        ConflictOrphanedLog,
				Description: fmt.Sprintf("Habit log %s on %s references missing habit %s", l.ID, l.Date, l.HabitID),
				IDs:         []string{l.HabitID},
			})
			continue
		}
		_, err := utils.ParseDate(l.Date)
		if err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Habit log %s has invalid date: %s", l.ID, l.Date),
				IDs:         []string{l.HabitID},
			})
		}
		if l.Completed {
			completed[l.HabitID]++
			if err == nil && l.Date > latest[l.HabitID] {
				latest[l.HabitID] = l.Date
			}
		}
	}

	for _, h := range habits {
		if h.CurrentStreak < 0 || h.LongestStreak < h.CurrentStreak {
			result.add(Conflict{
				Type: ConflictStreakCounters,
				Description: fmt.Sprintf("Habit %q has current streak %d and longest streak %d",
					h.Name, h.CurrentStreak, h.LongestStreak),
				Items: []string{h.Name},
				IDs:   []string{h.ID},
			})
		}
		if n := completed[h.ID]; h.TotalCompletions < n {
			result.add(Conflict{
				Type: ConflictCompletionCount,
				Description: fmt.Sprintf("Habit %q counts %d completions but has %d completed logs",
					h.Name, h.TotalCompletions, n),
				Items: []string{h.Name},
				IDs:   []string{h.ID},
			})
		}
		if last := latest[h.ID]; last != "" && h.LastCompletedDate < last {
			result.add(Conflict{
				Type: ConflictLastCompleted,
				Description: fmt.Sprintf("Habit %q was last completed %s but has a completed log on %s",
					h.Name, h.LastCompletedDate, last),
				Items: []string{h.Name},
				IDs:   []string{h.ID},
			})
		}
		if h.Frequency == models.FrequencyCustom && len(h.Weekdays) == 0 {
			result.add(Conflict{
				Type:        ConflictMissingWeekdays,
				Description: fmt.Sprintf("Habit %q has a custom frequency without weekdays", h.Name),
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}
		if h.ReminderTime != "" && !utils.ValidateTimeFormat(h.ReminderTime) {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Habit %q has invalid reminder time: %s", h.Name, h.ReminderTime),
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}
		if h.LastCompletedDate != "" {
			if _, err := utils.ParseDate(h.LastCompletedDate); err != nil {
				result.add(Conflict{
					Type:        ConflictInvalidDateTime,
					Description: fmt.Sprintf("Habit %q has invalid last completed date: %s", h.Name, h.LastCompletedDate),
					Items:       []string{h.Name},
					IDs:         []string{h.ID},
				})
			}
		}
	}

	return result
}

// ValidateChores checks that every chore's next due date follows from its
// last completion.
func (v *Validator) ValidateChores(chores []models.Chore) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, c := range chores {
		bad := false
		for _, d := range []string{c.LastDoneDate, c.NextDueDate} {
			if d == "" {
				continue
			}
			if _, err := utils.ParseDate(d); err != nil {
				bad = true
				result.add(Conflict{
					Type:        ConflictInvalidDateTime,
					Description: fmt.Sprintf("Chore %q has invalid date: %s", c.Name, d),
					Items:       []string{c.Name},
					IDs:         []string{c.ID},
				})
			}
		}
		if bad || c.LastDoneDate == "" {
			continue
		}

		want, err := recurrence.Reconcile(c)
		if err == nil && want.NextDueDate != c.NextDueDate {
			result.add(Conflict{
				Type: ConflictChoreDueDate,
				Description: fmt.Sprintf("Chore %q was last done %s so is due %s, not %q",
					c.Name, c.LastDoneDate, want.NextDueDate, c.NextDueDate),
				Items: []string{c.Name},
				IDs:   []string{c.ID},
			})
		}
	}

	return result
}

// ValidateReminders reports reminder rows whose habit, chore or task is gone.
func (v *Validator) ValidateReminders(reminders []models.Reminder, habits []models.Habit, chores []models.Chore, tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := map[models.ReminderKind]map[string]bool{
		models.ReminderHabit: {},
		models.ReminderChore: {},
		models.ReminderTask:  {},
	}
	for _, h := range habits {
		known[models.ReminderHabit][h.ID] = true
	}
	for _, c := range chores {
		known[models.ReminderChore][c.ID] = true
	}
	for _, t := range tasks {
		known[models.ReminderTask][t.ID] = true
	}

	for _, r := range reminders {
		ids, tracked := known[r.Kind]
		if !tracked || ids[r.EntityID] {
			continue
		}
		result.add(Conflict{
			Type:        ConflictOrphanedReminder,
			Description: fmt.Sprintf("Reminder %q points at missing %s %s", r.Title, r.Kind, r.EntityID),
			Items:       []string{r.Title},
			IDs:         []string{r.EntityID},
			Kind:        r.Kind,
		})
	}

	return result
}

// ValidateAll runs every check against repo.
func (v *Validator) ValidateAll(repo storage.Repository) (ValidationResult, error) {
	habits, err := repo.GetHabits(true)
	if err != nil {
		return ValidationResult{}, err
	}
	logs, err := repo.GetAllHabitLogs()
	if err != nil {
		return ValidationResult{}, err
	}
	chores, err := repo.GetChores(true)
	if err != nil {
		return ValidationResult{}, err
	}
	tasks, err := repo.GetAllTasks()
	if err != nil {
		return ValidationResult{}, err
	}
	reminders, err := repo.GetReminders()
	if err != nil {
		return ValidationResult{}, err
	}

	result := v.ValidateHabits(habits, logs)
	result.Conflicts = append(result.Conflicts, v.ValidateChores(chores).Conflicts...)
	result.Conflicts = append(result.Conflicts, v.ValidateReminders(reminders, habits, chores, tasks).Conflicts...)
	return result, nil
}
