package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/lifeflow?sslmode=disable"

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://testuser@localhost:5432/lifeflow"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != ErrNotFound {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	tests := []struct {
		name       string
		flag       string
		env        string
		keyring    string
		wantConn   string
		wantSource Source
	}{
		{"nothing configured", "", "", "", "", SourceNone},
		{"keyring only", "", "", "postgres://k@host/db", "postgres://k@host/db", SourceKeyring},
		{"env beats keyring", "", "postgres://e@host/db", "postgres://k@host/db", "postgres://e@host/db", SourceEnv},
		{"flag beats env", "postgres://f@host/db", "postgres://e@host/db", "", "postgres://f@host/db", SourceFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = DeleteConnectionString()
			if tt.keyring != "" {
				if err := SetConnectionString(tt.keyring); err != nil {
					t.Fatalf("SetConnectionString() failed: %v", err)
				}
			}

			conn, source, err := ResolveConnectionString(tt.flag, tt.env)
			if err != nil {
				t.Fatalf("ResolveConnectionString() failed: %v", err)
			}
			if conn != tt.wantConn || source != tt.wantSource {
				t.Errorf("ResolveConnectionString() = (%q, %q), want (%q, %q)", conn, source, tt.wantConn, tt.wantSource)
			}
		})
	}
}
