package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/notifier"
	"github.com/julianstephens/lifeflow/internal/reminder"
)

// NotifyCmd delivers the reminders that are due. It is meant to be run every
// few minutes from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	var n notifier.Notifier = notifier.NewTray(ctx.TrayDir)
	if c.DryRun {
		n = notifier.Writer{Out: os.Stdout}
	}

	d := reminder.NewDispatcher(ctx.Store, n)
	d.DryRun = c.DryRun

	report, err := d.Run(now)
	if err != nil {
		return err
	}

	if c.DryRun {
		fmt.Printf("[DryRun] %d notification(s) due, nothing marked as sent.\n", len(report.Sent))
	}
	if trayMissing(report.Failed) {
		logger.Info("Tray companion not running, reminders postponed", "pending", len(report.Failed))
		return nil
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d notification(s) failed; they will be retried on the next run",
			len(report.Failed), len(report.Sent)+len(report.Failed))
	}
	return nil
}

// trayMissing reports whether every failure is due to the tray not running.
func trayMissing(failed []reminder.Delivery) bool {
	if len(failed) == 0 {
		return false
	}
	for _, f := range failed {
		if !errors.Is(f.Err, notifier.ErrTrayNotRunning) {
			return false
		}
	}
	return true
}
