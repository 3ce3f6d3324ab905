package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("LIFEFLOW_DB_CONNECTION", "postgres://me@localhost/lifeflow")
	t.Setenv("LIFEFLOW_DEBUG", "true")
	t.Setenv("LIFEFLOW_TRAY_DIR", "/tmp/tray")

	env, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if env.DBConnection != "postgres://me@localhost/lifeflow" {
		t.Errorf("DBConnection = %q", env.DBConnection)
	}
	if !env.Debug {
		t.Error("Debug = false, want true")
	}
	if env.TrayDir != "/tmp/tray" {
		t.Errorf("TrayDir = %q", env.TrayDir)
	}
}

func TestLoadInvalidBool(t *testing.T) {
	t.Setenv("LIFEFLOW_DEBUG", "sometimes")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"postgres://localhost/db", true},
		{"postgresql://localhost/db", true},
		{"~/.config/lifeflow/lifeflow.db", false},
		{"/tmp/postgres.db", false},
	}
	for _, tt := range tests {
		if got := IsPostgres(tt.in); got != tt.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/.config/lifeflow/lifeflow.db")
	if err != nil {
		t.Fatalf("ExpandPath() failed: %v", err)
	}
	if want := filepath.Join(home, ".config/lifeflow/lifeflow.db"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("ExpandPath() changed absolute path: %q", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir, err := ConfigDir("/data/lifeflow/lifeflow.db")
	if err != nil {
		t.Fatalf("ConfigDir() failed: %v", err)
	}
	if dir != "/data/lifeflow" {
		t.Errorf("ConfigDir() = %q", dir)
	}
}
