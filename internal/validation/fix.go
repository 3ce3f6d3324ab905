package validation

import (
	"fmt"

	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/storage"
)

// AutoFix repairs the conflicts that have a safe automatic fix: streak and
// completion counters are raised to match the logs, chore due dates are
// recomputed and orphaned reminders are removed. Other conflicts are left
// for the user.
func AutoFix(repo storage.Repository, conflicts []Conflict) ([]FixAction, error) {
	var actions []FixAction

	for _, c := range conflicts {
		var action string
		var err error

		switch c.Type {
		case ConflictStreakCounters:
			action, err = fixStreak(repo, c.IDs[0])
		case ConflictCompletionCount:
			action, err = fixCompletions(repo, c.IDs[0])
		case ConflictChoreDueDate:
			action, err = fixChore(repo, c.IDs[0])
		case ConflictOrphanedReminder:
			err = repo.DeleteReminder(c.Kind, c.IDs[0])
			action = fmt.Sprintf("Removed orphaned %s reminder %s", c.Kind, c.IDs[0])
		default:
			continue
		}
		if err != nil {
			return actions, fmt.Errorf("failed to fix %s: %w", c.Type, err)
		}
		actions = append(actions, FixAction{Action: action, SourceConflict: c})
	}

	return actions, nil
}

func fixStreak(repo storage.Repository, id string) (string, error) {
	h, err := repo.GetHabit(id)
	if err != nil {
		return "", err
	}
	if h.CurrentStreak < 0 {
		h.CurrentStreak = 0
	}
	if h.LongestStreak < h.CurrentStreak {
		h.LongestStreak = h.CurrentStreak
	}
	if err := repo.UpdateHabit(h); err != nil {
		return "", err
	}
	return fmt.Sprintf("Set longest streak of %q to %d", h.Name, h.LongestStreak), nil
}

func fixCompletions(repo storage.Repository, id string) (string, error) {
	h, err := repo.GetHabit(id)
	if err != nil {
		return "", err
	}
	n, err := repo.CountCompletionsSince(id, "")
	if err != nil {
		return "", err
	}
	h.TotalCompletions = n
	if err := repo.UpdateHabit(h); err != nil {
		return "", err
	}
	return fmt.Sprintf("Set total completions of %q to %d", h.Name, n), nil
}

func fixChore(repo storage.Repository, id string) (string, error) {
	c, err := repo.GetChore(id)
	if err != nil {
		return "", err
	}
	c, err = recurrence.Reconcile(c)
	if err != nil {
		return "", err
	}
	if err := repo.UpdateChore(c); err != nil {
		return "", err
	}
	return fmt.Sprintf("Set next due date of %q to %s", c.Name, c.NextDueDate), nil
}
