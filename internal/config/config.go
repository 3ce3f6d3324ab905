// Package config reads environment overrides for the lifeflow CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/julianstephens/lifeflow/internal/constants"
)

// Env holds settings that can be supplied through LIFEFLOW_* variables.
// Example: LIFEFLOW_DB_CONNECTION, LIFEFLOW_TRAY_DIR
type Env struct {
	// PostgreSQL connection string; takes precedence over the keyring.
	DBConnection string `envconfig:"DB_CONNECTION" default:""`
	// Directory holding the tray companion's lockfile and settings.
	TrayDir string `envconfig:"TRAY_DIR" default:""`
	// Timezone overrides the stored timezone setting when set.
	Timezone string `envconfig:"TIMEZONE" default:""`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:""`
}

// Load parses LIFEFLOW_* environment variables.
func Load() (*Env, error) {
	var env Env
	if err := envconfig.Process(constants.EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &env, nil
}

// IsPostgres reports whether value is a PostgreSQL connection URL.
func IsPostgres(value string) bool {
	return strings.HasPrefix(value, "postgres://") || strings.HasPrefix(value, "postgresql://")
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the directory used for logs and backups. For a
// PostgreSQL store it is the default SQLite location's directory.
func ConfigDir(configPath string) (string, error) {
	if IsPostgres(configPath) {
		configPath = constants.DefaultConfigPath
	}
	path, err := ExpandPath(configPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
