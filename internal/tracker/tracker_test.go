package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
)

var createdAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeflow.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func setup(t *testing.T) (*Tracker, *sqlite.Store) {
	t.Helper()
	store := setupStore(t)
	tr := New(store, reminder.NewStoreScheduler(store, time.UTC))
	tr.SetClock(func() time.Time { return createdAt })
	return tr, store
}

func hasReminder(t *testing.T, repo storage.Repository, kind models.ReminderKind, id string) bool {
	t.Helper()
	_, err := repo.GetReminder(kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}
