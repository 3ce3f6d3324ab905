package chores

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/reminder"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type ChoreCmd struct {
	Add     ChoreAddCmd     `cmd:"" help:"Add a new chore."`
	List    ChoreListCmd    `cmd:"" help:"List chores by due date."`
	Done    ChoreDoneCmd    `cmd:"" help:"Mark a chore as done."`
	Overdue ChoreOverdueCmd `cmd:"" help:"List overdue chores."`
	Edit    ChoreEditCmd    `cmd:"" help:"Edit a chore."`
	Delete  ChoreDeleteCmd  `cmd:"" help:"Delete a chore."`
}

// find resolves a chore by ID or ID prefix, then by case-insensitive name.
func find(t *tracker.Tracker, ref string) (models.Chore, error) {
	all, err := t.Chores.List(true)
	if err != nil {
		return models.Chore{}, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return cli.Resolve(all, func(c models.Chore) string { return c.ID }, ref, "chore")
}

func dueLabel(c models.Chore, today time.Time) string {
	n, ok := recurrence.DaysUntilDue(c, today)
	switch {
	case !ok:
		return "not scheduled"
	case n < 0:
		return fmt.Sprintf("overdue by %d day(s)", -n)
	case n == 0:
		return "due today"
	case n == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days (%s)", n, c.NextDueDate)
	}
}

type ChoreAddCmd struct {
	Name      string `arg:"" help:"Chore name."`
	Room      string `help:"kitchen, washroom, bedroom, living_room or general." default:"general"`
	Frequency string `help:"daily, every_2_days, weekly, biweekly or monthly." default:"weekly"`
	Hour      *int   `help:"Hour of day (0-23) for the reminder; defaults to the configured chore hour."`
	Due       string `help:"First due date (YYYY-MM-DD)." default:""`
}

func (c *ChoreAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	room, err := models.ParseChoreRoom(c.Room)
	if err != nil {
		return err
	}
	freq, err := models.ParseChoreFrequency(c.Frequency)
	if err != nil {
		return err
	}

	var hour int
	if c.Hour != nil {
		hour = *c.Hour
	} else {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		hour = settings.DefaultChoreReminderHour
	}

	chore, err := t.Chores.Create(tracker.NewChore{
		Name:         c.Name,
		Room:         room,
		Frequency:    freq,
		ReminderHour: hour,
		FirstDue:     c.Due,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added chore: %s (%s, %s)\n", chore.Name, reminder.RoomLabel(chore.Room), chore.Frequency)
	return nil
}

type ChoreListCmd struct {
	All bool `help:"Include paused chores."`
}

func (c *ChoreListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	chores, err := t.Chores.List(c.All)
	if err != nil {
		return err
	}
	if len(chores) == 0 {
		fmt.Println("No chores found.")
		return nil
	}

	for _, ch := range chores {
		status := ""
		if !ch.Active {
			status = " [PAUSED]"
		}
		fmt.Printf("%-8s %-24s %-12s %-13s %s%s\n",
			cli.ShortID(ch.ID), ch.Name, reminder.RoomLabel(ch.Room), ch.Frequency,
			dueLabel(ch, today), status)
	}
	return nil
}

type ChoreDoneCmd struct {
	Chore string `arg:"" help:"Chore name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ChoreDoneCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	chore, err := find(t, c.Chore)
	if err != nil {
		return err
	}

	updated, err := t.Chores.MarkDone(chore.ID, day)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s done. Next due %s\n", updated.Name, updated.NextDueDate)
	return nil
}

type ChoreOverdueCmd struct{}

func (c *ChoreOverdueCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	overdue, err := t.Chores.Overdue(today)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		fmt.Println("Nothing overdue. 🎉")
		return nil
	}

	for _, ch := range overdue {
		fmt.Printf("⚠ %-24s %-12s %s\n", ch.Name, reminder.RoomLabel(ch.Room), dueLabel(ch, today))
	}
	return nil
}

type ChoreEditCmd struct {
	Chore     string  `arg:"" help:"Chore name or ID."`
	Name      *string `help:"New name."`
	Room      *string `help:"New room."`
	Frequency *string `help:"New frequency; the next due date follows the last completion."`
	Hour      *int    `help:"New reminder hour (0-23)."`
	Due       *string `help:"Due date (YYYY-MM-DD) for a chore that was never done."`
	Pause     bool    `help:"Pause the chore and its reminder." xor:"active"`
	Resume    bool    `help:"Resume a paused chore." xor:"active"`
}

func (c *ChoreEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	chore, err := find(t, c.Chore)
	if err != nil {
		return err
	}

	if c.Name != nil {
		chore.Name = *c.Name
	}
	if c.Room != nil {
		room, err := models.ParseChoreRoom(*c.Room)
		if err != nil {
			return err
		}
		chore.Room = room
	}
	if c.Frequency != nil {
		freq, err := models.ParseChoreFrequency(*c.Frequency)
		if err != nil {
			return err
		}
		chore.Frequency = freq
	}
	if c.Hour != nil {
		chore.ReminderHour = *c.Hour
	}
	if c.Due != nil {
		if chore.LastDoneDate != "" {
			return fmt.Errorf("%s has been done before; its due date follows from the last completion", chore.Name)
		}
		if _, err := utils.ParseDate(*c.Due); err != nil {
			return err
		}
		chore.NextDueDate = *c.Due
	}
	if c.Pause {
		chore.Active = false
	}
	if c.Resume {
		chore.Active = true
	}

	updated, err := t.Chores.Update(chore)
	if err != nil {
		return err
	}
	fmt.Printf("Updated chore: %s (%s)\n", updated.Name, updated.Frequency)
	return nil
}

type ChoreDeleteCmd struct {
	Chore string `arg:"" help:"Chore name or ID."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ChoreDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	chore, err := find(t, c.Chore)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete chore %q?", chore.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := t.Chores.Delete(chore.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted chore: %s\n", chore.Name)
	return nil
}
