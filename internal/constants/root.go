package constants

import "time"

// SessionState represents the current tab or modal of the TUI application
type SessionState int

const (
	AppName            = "lifeflow"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/lifeflow/lifeflow.db"
	EnvPrefix          = "LIFEFLOW"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is used for task deadlines and reminder times entered on the command line
	DateTimeFormat = "2006-01-02 15:04"

	// MonthFormat identifies a budget month (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifeflow-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "lifeflow-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.lifeflow"
	TrayProcessPrefix      = "lifeflow-tray"

	// Tracker limits
	RecentHabitLogLimit     = 30
	RecentCompletedTasks    = 30
	DefaultHistoryDays      = 14
	DefaultGroceryCategory  = "General"
	DefaultHabitIcon        = "⭐"
	DefaultChoreReminderHr  = 9
	DefaultHabitReminderStr = "07:00"
)

// Session States
const (
	StateHabits SessionState = iota
	StateChores
	StateTasks
	StateGroceries
	StateBudget
	StateAddHabit
	StateAddGrocery
	StateConfirmDelete
)

// Tabs lists the top-level TUI tabs in display order.
var Tabs = []SessionState{StateHabits, StateChores, StateTasks, StateGroceries, StateBudget}
