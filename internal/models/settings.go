package models

type Settings struct {
	Timezone                 string `json:"timezone" yaml:"timezone"`
	NotificationsEnabled     bool   `json:"notifications_enabled" yaml:"notifications_enabled"`
	DailySummaryEnabled      bool   `json:"daily_summary_enabled" yaml:"daily_summary_enabled"`
	DailySummaryTime         string `json:"daily_summary_time" yaml:"daily_summary_time"` // HH:MM format
	BudgetAlertsEnabled      bool   `json:"budget_alerts_enabled" yaml:"budget_alerts_enabled"`
	DefaultHabitReminder     string `json:"default_habit_reminder" yaml:"default_habit_reminder"` // HH:MM format
	DefaultChoreReminderHour int    `json:"default_chore_reminder_hour" yaml:"default_chore_reminder_hour"`
	CurrencySymbol           string `json:"currency_symbol" yaml:"currency_symbol"`
}
