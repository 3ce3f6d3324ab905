package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/backup"
	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/postgres"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Scheduler overrides the reminder scheduler; nil uses the store backed one.
	Scheduler reminder.Scheduler
	// Timezone overrides the stored timezone setting.
	Timezone string
	// TrayDir overrides where the tray companion's lockfile is looked up.
	TrayDir string
	// Clock returns the current instant; nil means time.Now.
	Clock func() time.Time
	// In answers confirmation prompts; nil means stdin.
	In io.Reader

	tracker *tracker.Tracker
	loc     *time.Location
}

// Location returns the user's timezone, from the override or the settings.
func (c *Context) Location() (*time.Location, error) {
	if c.loc != nil {
		return c.loc, nil
	}
	tz := c.Timezone
	if tz == "" {
		settings, err := c.Store.GetSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		tz = settings.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	c.loc = loc
	return loc, nil
}

// Now returns the current instant in the user's timezone.
func (c *Context) Now() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now
	if c.Clock != nil {
		now = c.Clock
	}
	return now().In(loc), nil
}

// Today returns the user's current calendar date.
func (c *Context) Today() (time.Time, error) {
	now, err := c.Now()
	if err != nil {
		return time.Time{}, err
	}
	return utils.DateOf(now), nil
}

// Day parses a YYYY-MM-DD flag value, defaulting to today.
func (c *Context) Day(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return c.Today()
	}
	return utils.ParseDate(s)
}

// Tracker returns the tracker services bound to the store.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	sched, err := c.ReminderScheduler()
	if err != nil {
		return nil, err
	}
	t := tracker.New(c.Store, sched)
	t.SetClock(func() time.Time {
		now, err := c.Now()
		if err != nil {
			return time.Now()
		}
		return now
	})
	c.tracker = t
	return t, nil
}

// ReminderScheduler returns the override or a scheduler writing reminder
// rows to the store.
func (c *Context) ReminderScheduler() (reminder.Scheduler, error) {
	if c.Scheduler != nil {
		return c.Scheduler, nil
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return reminder.NewStoreScheduler(c.Store, loc), nil
}

// SchedulerIn returns the override or a store backed scheduler for the
// timezone tz. The Timezone override still wins over tz.
func (c *Context) SchedulerIn(tz string) (reminder.Scheduler, error) {
	if c.Scheduler != nil {
		return c.Scheduler, nil
	}
	if c.Timezone != "" {
		tz = c.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return reminder.NewStoreScheduler(c.Store, loc), nil
}

// Reset drops cached state after the store was reopened or replaced.
func (c *Context) Reset() {
	c.tracker = nil
	c.loc = nil
}

// IsSQLite reports whether the store is a local database file.
func (c *Context) IsSQLite() bool {
	_, pg := c.Store.(*postgres.Store)
	return !pg
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Printf("%s [y/N]: ", prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ShortID abbreviates a UUID for list output. Commands accept the full ID
// or a name.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Resolve finds the item whose ID equals ref or starts with it. A prefix
// must be unique. label names the item kind in errors.
func Resolve[T any](items []T, id func(T) string, ref, label string) (T, error) {
	var zero T
	var matches []T
	for _, item := range items {
		switch {
		case id(item) == ref:
			return item, nil
		case len(ref) >= 4 && strings.HasPrefix(id(item), ref):
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", label, ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s ID %q is ambiguous (%d matches)", label, ref, len(matches))
	}
}
