package data

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/portability"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." default:""`
	Format string `help:"yaml or json (default: from the file extension, else yaml)." default:""`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := resolveFormat(c.Format, c.Output)
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	snap, err := portability.Export(ctx.Store, now)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := portability.Encode(w, snap, format); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported %d habits, %d chores, %d tasks, %d grocery items and %d transactions to %s\n",
			len(snap.Habits), len(snap.Chores), len(snap.Tasks), len(snap.Groceries), len(snap.Transactions), c.Output)
	}
	return nil
}

// resolveFormat prefers the explicit flag, then the file extension.
func resolveFormat(flag, path string) (portability.Format, error) {
	if flag != "" {
		return portability.ParseFormat(flag)
	}
	return portability.FormatFromPath(path), nil
}
