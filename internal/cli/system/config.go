package system

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/keyring"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/storage/postgres"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type ConfigCmd struct {
	Show             ConfigShowCmd             `cmd:"" help:"Show settings and where the database lives."`
	Set              ConfigSetCmd              `cmd:"" help:"Change a setting."`
	SetConnection    ConfigSetConnectionCmd    `cmd:"" name:"set-connection" help:"Store a PostgreSQL connection string in the OS keyring."`
	DeleteConnection ConfigDeleteConnectionCmd `cmd:"" name:"delete-connection" help:"Remove the stored connection string from the OS keyring."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	location := ctx.Store.GetConfigPath()
	if !ctx.IsSQLite() {
		location = "PostgreSQL"
	}
	fmt.Printf("Database: %s\n", location)

	switch {
	case !keyring.IsAvailable():
		fmt.Println("Keyring:  unavailable")
	default:
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			fmt.Printf("Keyring:  %s\n", maskPassword(connStr))
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Println("Keyring:  no connection string stored")
		default:
			fmt.Printf("Keyring:  %v\n", err)
		}
	}

	fmt.Println("\nSettings:")
	values := models.SettingsToMap(settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-28s %s\n", k, values[k])
	}
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name, as shown by 'config show'."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	values := models.SettingsToMap(settings)
	if _, ok := values[c.Key]; !ok {
		return fmt.Errorf("unknown setting %q", c.Key)
	}
	if err := validateSetting(c.Key, c.Value); err != nil {
		return err
	}
	values[c.Key] = c.Value

	updated, err := models.MapToSettings(values)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Reset()

	fmt.Printf("✓ %s = %s\n", c.Key, c.Value)
	return nil
}

func validateSetting(key, value string) error {
	switch key {
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone %q", value)
		}
	case constants.SettingDailySummaryTime, constants.SettingDefaultHabitReminder:
		if !utils.ValidateTimeFormat(value) {
			return fmt.Errorf("invalid time %q, expected HH:MM", value)
		}
	case constants.SettingNotificationsEnabled, constants.SettingDailySummaryEnabled, constants.SettingBudgetAlertsEnabled:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	case constants.SettingDefaultChoreHour:
		hour, err := strconv.Atoi(value)
		if err != nil || hour < 0 || hour > 23 {
			return fmt.Errorf("%s must be an hour between 0 and 23", key)
		}
	case constants.SettingCurrencySymbol:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
	}
	return nil
}

type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (c *ConfigSetConnectionCmd) Run(ctx *cli.Context) error {
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		fmt.Println("   Consider .pgpass if you prefer to keep passwords out of connection strings.")
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored in OS keyring")
	fmt.Printf("  %s will use PostgreSQL from now on\n", constants.AppName)
	return nil
}

type ConfigDeleteConnectionCmd struct{}

func (c *ConfigDeleteConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// maskPassword hides the password in URL and key=value connection strings.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
