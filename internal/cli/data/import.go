package data

import (
	"fmt"
	"os"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/portability"
	"github.com/julianstephens/lifeflow/internal/reminder"
)

type ImportCmd struct {
	File   string `arg:"" help:"Snapshot file written by 'export'." type:"existingfile"`
	Mode   string `help:"fail, skip, merge or replace." default:"merge"`
	Format string `help:"yaml or json (default: from the file extension)." default:""`
	DryRun bool   `name:"dry-run" help:"Report what would change without writing."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	mode, err := portability.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	format, err := resolveFormat(c.Format, c.File)
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := portability.Decode(f, format)
	if err != nil {
		return err
	}

	if !c.DryRun {
		ctx.PerformAutomaticBackup()
	}

	var sched reminder.Scheduler
	if mode == portability.ModeSkip || mode == portability.ModeFail {
		sched, err = ctx.ReminderScheduler()
	} else {
		// Imported settings replace the stored ones, timezone included.
		sched, err = ctx.SchedulerIn(snap.Settings.Timezone)
	}
	if err != nil {
		return err
	}
	report, err := portability.Import(ctx.Store, snap, portability.Options{
		Mode:      mode,
		DryRun:    c.DryRun,
		Scheduler: sched,
	})
	if err != nil {
		return err
	}
	ctx.Reset()

	prefix := "✓ Imported"
	if c.DryRun {
		prefix = "Dry run, would import"
	}
	fmt.Printf("%s (%s): %d inserted, %d updated, %d skipped, %d deleted\n",
		prefix, mode, report.Inserted, report.Updated, report.Skipped, report.Deleted)
	return nil
}
