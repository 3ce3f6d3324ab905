// Package portability exports the whole database to a YAML or JSON snapshot
// and imports such snapshots back.
package portability

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
)

// FormatVersion is bumped whenever the snapshot layout changes incompatibly.
const FormatVersion = 1

type Snapshot struct {
	Version      int                  `json:"version" yaml:"version"`
	ExportedAt   time.Time            `json:"exported_at" yaml:"exported_at"`
	Settings     models.Settings      `json:"settings" yaml:"settings"`
	Habits       []models.Habit       `json:"habits" yaml:"habits"`
	HabitLogs    []models.HabitLog    `json:"habit_logs" yaml:"habit_logs"`
	Chores       []models.Chore       `json:"chores" yaml:"chores"`
	Tasks        []models.Task        `json:"tasks" yaml:"tasks"`
	Groceries    []models.GroceryItem `json:"groceries" yaml:"groceries"`
	Transactions []models.Transaction `json:"transactions" yaml:"transactions"`
	BudgetGoals  []models.BudgetGoal  `json:"budget_goals" yaml:"budget_goals"`
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks JSON for .json files and YAML otherwise.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected yaml or json)", s)
	}
}

// Export reads every tracked entity from repo.
func Export(repo storage.Repository, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{Version: FormatVersion, ExportedAt: now.UTC()}
	var err error

	if snap.Settings, err = repo.GetSettings(); err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	if snap.Habits, err = repo.GetHabits(true); err != nil {
		return nil, fmt.Errorf("export habits: %w", err)
	}
	if snap.HabitLogs, err = repo.GetAllHabitLogs(); err != nil {
		return nil, fmt.Errorf("export habit logs: %w", err)
	}
	if snap.Chores, err = repo.GetChores(true); err != nil {
		return nil, fmt.Errorf("export chores: %w", err)
	}
	if snap.Tasks, err = repo.GetAllTasks(); err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	if snap.Groceries, err = repo.GetGroceryItems(false); err != nil {
		return nil, fmt.Errorf("export groceries: %w", err)
	}
	if snap.Transactions, err = repo.GetTransactions("", "9999-12-31"); err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if snap.BudgetGoals, err = repo.GetAllBudgetGoals(); err != nil {
		return nil, fmt.Errorf("export budget goals: %w", err)
	}

	return snap, nil
}

func Encode(w io.Writer, snap *Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses a snapshot and rejects unknown fields and newer versions.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	snap := &Snapshot{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(snap); err != nil {
			return nil, fmt.Errorf("invalid JSON snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(snap); err != nil {
			return nil, fmt.Errorf("invalid YAML snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if snap.Version < 1 || snap.Version > FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (this build reads up to %d)", snap.Version, FormatVersion)
	}
	return snap, nil
}

type Mode string

const (
	// ModeFail aborts the import on the first record that already exists.
	ModeFail Mode = "fail"
	// ModeSkip keeps existing records.
	ModeSkip Mode = "skip"
	// ModeMerge overwrites existing records with the snapshot's.
	ModeMerge Mode = "merge"
	// ModeReplace deletes all data before importing.
	ModeReplace Mode = "replace"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFail, ModeSkip, ModeMerge, ModeReplace:
		return m, nil
	case "":
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("invalid import mode %q", s)
	}
}

type Options struct {
	Mode   Mode
	DryRun bool
	// Scheduler, when set, is updated for every imported habit, chore and
	// task once the import has committed.
	Scheduler reminder.Scheduler
}

type Report struct {
	Inserted int `json:"inserted" yaml:"inserted"`
	Updated  int `json:"updated" yaml:"updated"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Deleted  int `json:"deleted" yaml:"deleted"`
}

// ErrConflict is returned in ModeFail when a snapshot record already exists.
var ErrConflict = errors.New("record already exists")

var errDryRun = errors.New("dry run")

// Import writes snap to store in a single transaction. A dry run performs
// the same work and rolls it back, so the report shows what would change.
func Import(store storage.Provider, snap *Snapshot, opts Options) (Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModeMerge
	}

	var report Report
	var removed *Snapshot

	err := store.WithTx(func(repo storage.Repository) error {
		report = Report{}
		im := &importer{repo: repo, mode: opts.Mode, report: &report}

		if opts.Mode == ModeReplace {
			existing, err := Export(repo, time.Now())
			if err != nil {
				return err
			}
			if err := im.clear(existing); err != nil {
				return err
			}
			removed = existing
		}

		if err := im.run(snap); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return Report{}, fmt.Errorf("import failed: %w", err)
	}

	if !opts.DryRun && opts.Scheduler != nil {
		resync(store, opts.Scheduler, removed, snap)
	}
	return report, nil
}

type importer struct {
	repo   storage.Repository
	mode   Mode
	report *Report
}

// decide reports whether a record should be written given whether it
// already exists, and counts the outcome.
func (im *importer) decide(kind, id string, exists bool) (bool, error) {
	if !exists {
		im.report.Inserted++
		return true, nil
	}
	switch im.mode {
	case ModeFail:
		return false, fmt.Errorf("%s %s: %w", kind, id, ErrConflict)
	case ModeSkip:
		im.report.Skipped++
		return false, nil
	default:
		im.report.Updated++
		return true, nil
	}
}

func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (im *importer) run(snap *Snapshot) error {
	if im.mode != ModeSkip && im.mode != ModeFail {
		if err := im.repo.SaveSettings(snap.Settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}

	for _, h := range snap.Habits {
		found, err := exists(getErr(im.repo.GetHabit(h.ID)))
		if err != nil {
			return err
		}
		write, err := im.decide("habit", h.ID, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if found {
			err = im.repo.UpdateHabit(h)
		} else {
			err = im.repo.AddHabit(h)
		}
		if err != nil {
			return fmt.Errorf("import habit %q: %w", h.Name, err)
		}
	}

	for _, l := range snap.HabitLogs {
		found, err := exists(getErr(im.repo.GetHabitLog(l.HabitID, l.Date)))
		if err != nil {
			return err
		}
		write, err := im.decide("habit log", l.HabitID+"@"+l.Date, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if err := im.repo.PutHabitLog(l); err != nil {
			return fmt.Errorf("import habit log %s@%s: %w", l.HabitID, l.Date, err)
		}
	}

	for _, c := range snap.Chores {
		found, err := exists(getErr(im.repo.GetChore(c.ID)))
		if err != nil {
			return err
		}
		write, err := im.decide("chore", c.ID, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if found {
			err = im.repo.UpdateChore(c)
		} else {
			err = im.repo.AddChore(c)
		}
		if err != nil {
			return fmt.Errorf("import chore %q: %w", c.Name, err)
		}
	}

	for _, t := range snap.Tasks {
		found, err := exists(getErr(im.repo.GetTask(t.ID)))
		if err != nil {
			return err
		}
		write, err := im.decide("task", t.ID, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if found {
			err = im.repo.UpdateTask(t)
		} else {
			err = im.repo.AddTask(t)
		}
		if err != nil {
			return fmt.Errorf("import task %q: %w", t.Title, err)
		}
	}

	for _, g := range snap.Groceries {
		found, err := exists(getErr(im.repo.GetGroceryItem(g.ID)))
		if err != nil {
			return err
		}
		write, err := im.decide("grocery item", g.ID, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if found {
			if err := im.repo.DeleteGroceryItem(g.ID); err != nil {
				return err
			}
		}
		if err := im.repo.AddGroceryItem(g); err != nil {
			return fmt.Errorf("import grocery item %q: %w", g.Name, err)
		}
	}

	for _, t := range snap.Transactions {
		found, err := exists(getErr(im.repo.GetTransaction(t.ID)))
		if err != nil {
			return err
		}
		write, err := im.decide("transaction", t.ID, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if found {
			if err := im.repo.DeleteTransaction(t.ID); err != nil {
				return err
			}
		}
		if err := im.repo.AddTransaction(t); err != nil {
			return fmt.Errorf("import transaction %q: %w", t.Title, err)
		}
	}

	for _, g := range snap.BudgetGoals {
		goals, err := im.repo.GetBudgetGoals(g.Month)
		if err != nil {
			return err
		}
		found := false
		for _, existing := range goals {
			if existing.Category == g.Category {
				found = true
				break
			}
		}
		write, err := im.decide("budget goal", string(g.Category)+"@"+g.Month, found)
		if err != nil {
			return err
		}
		if !write {
			continue
		}
		if err := im.repo.SetBudgetGoal(g); err != nil {
			return fmt.Errorf("import budget goal %s@%s: %w", g.Category, g.Month, err)
		}
	}

	return nil
}

// clear deletes everything listed in existing. Habit logs go with their
// habits; budget goals have no delete and are overwritten instead.
func (im *importer) clear(existing *Snapshot) error {
	for _, h := range existing.Habits {
		if err := im.repo.DeleteHabit(h.ID); err != nil {
			return fmt.Errorf("clear habit %q: %w", h.Name, err)
		}
		im.report.Deleted++
	}
	for _, c := range existing.Chores {
		if err := im.repo.DeleteChore(c.ID); err != nil {
			return fmt.Errorf("clear chore %q: %w", c.Name, err)
		}
		im.report.Deleted++
	}
	for _, t := range existing.Tasks {
		if err := im.repo.DeleteTask(t.ID); err != nil {
			return fmt.Errorf("clear task %q: %w", t.Title, err)
		}
		im.report.Deleted++
	}
	for _, g := range existing.Groceries {
		if err := im.repo.DeleteGroceryItem(g.ID); err != nil {
			return fmt.Errorf("clear grocery item %q: %w", g.Name, err)
		}
		im.report.Deleted++
	}
	for _, t := range existing.Transactions {
		if err := im.repo.DeleteTransaction(t.ID); err != nil {
			return fmt.Errorf("clear transaction %q: %w", t.Title, err)
		}
		im.report.Deleted++
	}
	return nil
}

func getErr[T any](_ T, err error) error {
	return err
}

// resync brings reminders in line with the imported data, using the stored
// version of each record so that skipped records keep their own schedule.
func resync(repo storage.Repository, sched reminder.Scheduler, removed, snap *Snapshot) {
	warn := func(kind, id string, err error) {
		if err != nil {
			logger.Warn("Failed to update reminder after import", "kind", kind, "id", id, "error", err)
		}
	}

	if removed != nil {
		for _, h := range removed.Habits {
			warn("habit", h.ID, sched.CancelHabit(h.ID))
		}
		for _, c := range removed.Chores {
			warn("chore", c.ID, sched.CancelChore(c.ID))
		}
		for _, t := range removed.Tasks {
			warn("task", t.ID, sched.CancelTask(t.ID))
		}
	}

	for _, h := range snap.Habits {
		stored, err := repo.GetHabit(h.ID)
		if err == nil {
			err = sched.ScheduleHabit(stored)
		}
		warn("habit", h.ID, err)
	}
	for _, c := range snap.Chores {
		stored, err := repo.GetChore(c.ID)
		if err == nil {
			err = sched.ScheduleChore(stored)
		}
		warn("chore", c.ID, err)
	}
	for _, t := range snap.Tasks {
		stored, err := repo.GetTask(t.ID)
		if err == nil {
			err = sched.ScheduleTask(stored)
		}
		warn("task", t.ID, err)
	}
}
