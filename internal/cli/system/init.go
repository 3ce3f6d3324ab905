package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lifeflow/internal/backup"
	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/config"
	"github.com/julianstephens/lifeflow/internal/portability"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/postgres"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Back up and delete the existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force && ctx.IsSQLite() {
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}

		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			info, err := backup.NewManager(dbPath).Create()
			if err != nil {
				return fmt.Errorf("refusing to delete database without a backup: %w", err)
			}
			fmt.Printf("Backed up existing database to: %s\n", info.Path)

			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
			ctx.Reset()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized lifeflow storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		report, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Copied %d record(s), replaced %d.\n", report.Inserted+report.Updated, report.Deleted)
	}

	return nil
}

// copyFrom replaces the new store's contents with a snapshot of the source.
func (c *InitCmd) copyFrom(ctx *cli.Context) (portability.Report, error) {
	var source storage.Provider
	if config.IsPostgres(c.Source) {
		if err := postgres.ValidateConnString(c.Source); err != nil {
			return portability.Report{}, err
		}
		source = postgres.New(c.Source)
	} else {
		path, err := config.ExpandPath(c.Source)
		if err != nil {
			return portability.Report{}, err
		}
		source = sqlite.NewStore(path)
	}

	if err := source.Load(); err != nil {
		return portability.Report{}, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	now, err := ctx.Now()
	if err != nil {
		return portability.Report{}, err
	}
	snap, err := portability.Export(source, now)
	if err != nil {
		return portability.Report{}, err
	}

	// Reminders follow the copied timezone unless it is overridden.
	sched, err := ctx.SchedulerIn(snap.Settings.Timezone)
	if err != nil {
		return portability.Report{}, err
	}
	defer ctx.Reset()

	return portability.Import(ctx.Store, snap, portability.Options{
		Mode:      portability.ModeReplace,
		Scheduler: sched,
	})
}
