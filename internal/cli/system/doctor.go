package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/backup"
	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/utils"
	"github.com/julianstephens/lifeflow/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair data problems that have a safe automatic fix."`
}

// warning is a check failure that is reported but not fatal.
type warning struct{ msg string }

func (w warning) Error() string { return w.msg }

func warn(format string, args ...any) error {
	return warning{fmt.Sprintf(format, args...)}
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	run     func(*cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{"Database reachable", false, checkDBReachable},
		{"Schema version", true, checkSchemaVersion},
		{"Backups present", false, checkBackupsPresent},
		{"Timezone", true, checkTimezone},
		{"Clock", false, checkClock},
		{"Data validation", true, cmd.checkData},
	}

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var w warning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &w):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %s\n", w.msg)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'lifeflow migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return warn("no backups found - consider creating one with 'lifeflow backup create'")
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("stored timezone %q is not a valid IANA name", settings.Timezone)
	}
	if !utils.ValidateTimeFormat(settings.DailySummaryTime) {
		return fmt.Errorf("daily summary time %q is not HH:MM", settings.DailySummaryTime)
	}
	return nil
}

func checkClock(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func (cmd *DoctorCmd) checkData(ctx *cli.Context) error {
	result, err := validation.New().ValidateAll(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	if !result.HasConflicts() {
		return nil
	}

	if !cmd.Fix {
		return fmt.Errorf("%s(run 'lifeflow doctor --fix' to repair what can be repaired)", result.FormatReport())
	}

	actions, err := validation.AutoFix(ctx.Store, result.Conflicts)
	for _, a := range actions {
		fmt.Printf("   fixed: %s\n", a.Action)
	}
	if err != nil {
		return err
	}

	remaining, err := validation.New().ValidateAll(ctx.Store)
	if err != nil {
		return err
	}
	if remaining.HasConflicts() {
		return fmt.Errorf("%s", remaining.FormatReport())
	}
	return nil
}
