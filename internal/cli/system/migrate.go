package system

import (
	"fmt"

	"github.com/julianstephens/lifeflow/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if current >= latest {
		fmt.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	// Init applies every pending migration, each in its own transaction.
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Successfully applied %d migration(s). Schema version is now %d.\n", latest-current, latest)
	return nil
}
