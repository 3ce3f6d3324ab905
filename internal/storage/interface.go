package storage

import (
	"errors"

	"github.com/julianstephens/lifeflow/internal/models"
)

// ErrNotFound is returned when a lookup by identity matches no row.
var ErrNotFound = errors.New("not found")

// Repository is the set of queries available both on the open database and
// inside a transaction started by Provider.WithTx.
type Repository interface {
	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetHabits(includeInactive bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Habit Logs
	GetHabitLog(habitID, day string) (models.HabitLog, error)
	// PutHabitLog inserts or replaces the log for (habitID, date). A log
	// without an ID is assigned one.
	PutHabitLog(models.HabitLog) error
	GetHabitLogs(habitID string, limit int) ([]models.HabitLog, error)
	GetHabitLogsBetween(habitID, startDay, endDay string) ([]models.HabitLog, error)
	GetHabitLogsForDay(day string) ([]models.HabitLog, error)
	GetAllHabitLogs() ([]models.HabitLog, error)
	CountCompletionsSince(habitID, day string) (int, error)

	// Chores
	AddChore(models.Chore) error
	GetChore(id string) (models.Chore, error)
	GetChores(includeInactive bool) ([]models.Chore, error)
	GetOverdueChores(today string) ([]models.Chore, error)
	UpdateChore(models.Chore) error
	DeleteChore(id string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetActiveTasks() ([]models.Task, error)
	GetCompletedTasks(limit int) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error
	TotalPostponeCount() (int, error)

	// Groceries
	AddGroceryItem(models.GroceryItem) error
	GetGroceryItem(id string) (models.GroceryItem, error)
	GetGroceryItems(pendingOnly bool) ([]models.GroceryItem, error)
	SetGroceryPurchased(id string, purchased bool) error
	DeleteGroceryItem(id string) error
	ClearPurchasedGroceries() (int, error)

	// Budget
	AddTransaction(models.Transaction) error
	GetTransaction(id string) (models.Transaction, error)
	GetTransactions(startDay, endDay string) ([]models.Transaction, error)
	DeleteTransaction(id string) error
	SetBudgetGoal(models.BudgetGoal) error
	GetBudgetGoals(month string) ([]models.BudgetGoal, error)
	GetAllBudgetGoals() ([]models.BudgetGoal, error)

	// Reminders
	PutReminder(models.Reminder) error
	GetReminder(kind models.ReminderKind, entityID string) (models.Reminder, error)
	GetReminders() ([]models.Reminder, error)
	DeleteReminder(kind models.ReminderKind, entityID string) error
	MarkReminderFired(kind models.ReminderKind, entityID, day string) error
}

// Provider is an initialized storage backend.
type Provider interface {
	Repository

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// WithTx runs fn inside a single transaction. The transaction commits
	// when fn returns nil and rolls back on an error or panic.
	WithTx(fn func(Repository) error) error

	// SchemaVersion reports the applied and the latest embedded migration.
	SchemaVersion() (current, latest int, err error)

	// Utils
	GetConfigPath() string
}
