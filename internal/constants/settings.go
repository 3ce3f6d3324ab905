package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingDailySummaryEnabled  = "daily_summary_enabled"
	SettingDailySummaryTime     = "daily_summary_time"
	SettingBudgetAlertsEnabled  = "budget_alerts_enabled"
	SettingDefaultHabitReminder = "default_habit_reminder"
	SettingDefaultChoreHour     = "default_chore_reminder_hour"
	SettingCurrencySymbol       = "currency_symbol"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultDailySummaryEnabled  = true
	DefaultDailySummaryTime     = "08:00"
	DefaultBudgetAlertsEnabled  = true
	DefaultCurrencySymbol       = "£"
)
