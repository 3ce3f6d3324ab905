package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/lifeflow/internal/constants"
)

// DefaultSettings returns the settings used for a freshly initialized store.
func DefaultSettings() Settings {
	return Settings{
		Timezone:                 constants.DefaultTimezone,
		NotificationsEnabled:     constants.DefaultNotificationsEnabled,
		DailySummaryEnabled:      constants.DefaultDailySummaryEnabled,
		DailySummaryTime:         constants.DefaultDailySummaryTime,
		BudgetAlertsEnabled:      constants.DefaultBudgetAlertsEnabled,
		DefaultHabitReminder:     constants.DefaultHabitReminderStr,
		DefaultChoreReminderHour: constants.DefaultChoreReminderHr,
		CurrencySymbol:           constants.DefaultCurrencySymbol,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from data keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingDailySummaryEnabled:
			settings.DailySummaryEnabled = value == "true"
		case constants.SettingDailySummaryTime:
			settings.DailySummaryTime = value
		case constants.SettingBudgetAlertsEnabled:
			settings.BudgetAlertsEnabled = value == "true"
		case constants.SettingDefaultHabitReminder:
			settings.DefaultHabitReminder = value
		case constants.SettingDefaultChoreHour:
			hour, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.DefaultChoreReminderHour = hour
		case constants.SettingCurrencySymbol:
			settings.CurrencySymbol = value
		}
	}

	return settings, nil
}

// SettingsToMap is the inverse of MapToSettings.
func SettingsToMap(s Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             s.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(s.NotificationsEnabled),
		constants.SettingDailySummaryEnabled:  strconv.FormatBool(s.DailySummaryEnabled),
		constants.SettingDailySummaryTime:     s.DailySummaryTime,
		constants.SettingBudgetAlertsEnabled:  strconv.FormatBool(s.BudgetAlertsEnabled),
		constants.SettingDefaultHabitReminder: s.DefaultHabitReminder,
		constants.SettingDefaultChoreHour:     strconv.Itoa(s.DefaultChoreReminderHour),
		constants.SettingCurrencySymbol:       s.CurrencySymbol,
	}
}
