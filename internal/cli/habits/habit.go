package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done for a day."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's habit status."`
	Log    HabitLogCmd    `cmd:"" help:"Show habit log (ASCII history)."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Pause  HabitPauseCmd  `cmd:"" help:"Pause a habit and its reminder."`
	Resume HabitResumeCmd `cmd:"" help:"Resume a paused habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Icon      string `help:"Emoji shown next to the habit." default:""`
	Frequency string `help:"daily, weekdays, weekends or custom." default:"daily"`
	Days      string `help:"Weekdays for a custom habit (e.g. mon,wed,fri)." default:""`
	Reminder  string `help:"Reminder time (HH:MM); defaults to the configured habit reminder." default:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	freq, err := models.ParseHabitFrequency(c.Frequency)
	if err != nil {
		return err
	}
	weekdays, err := utils.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	reminderTime := c.Reminder
	if reminderTime == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		reminderTime = settings.DefaultHabitReminder
	}

	habit, err := t.Habits.Create(tracker.NewHabit{
		Name:         c.Name,
		Icon:         c.Icon,
		Frequency:    freq,
		Weekdays:     weekdays,
		ReminderTime: reminderTime,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s %s (%s, reminder at %s)\n",
		habit.Icon, habit.Name, utils.FormatHabitFrequency(habit), habit.ReminderTime)
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include paused habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habits, err := t.Habits.List(c.All)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if !h.Active {
			status = " [PAUSED]"
		}
		fmt.Printf("%s %-20s %-16s 🔥 %d (best %d, total %d)%s\n",
			h.Icon, h.Name, utils.FormatHabitFrequency(h),
			h.CurrentStreak, h.LongestStreak, h.TotalCompletions, status)
	}
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today). Cannot precede the last completion." default:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	habit, err := t.Habits.Get(c.Habit)
	if err != nil {
		return err
	}

	result, err := t.Habits.MarkDone(habit.ID, day)
	if err != nil {
		return err
	}

	if !result.Applied {
		fmt.Printf("%s %s was already done on %s (streak %d)\n",
			habit.Icon, habit.Name, utils.FormatDate(day), result.Habit.CurrentStreak)
		return nil
	}
	fmt.Printf("✓ %s %s done for %s. 🔥 %d day streak (best %d)\n",
		habit.Icon, habit.Name, utils.FormatDate(day), result.Habit.CurrentStreak, result.Habit.LongestStreak)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	statuses, err := t.Habits.Today(today)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Habits for %s:\n\n", utils.FormatDate(today))
	recorded, scheduled := 0, 0
	for _, s := range statuses {
		status := "[ ]"
		switch {
		case s.Done:
			status = "[x]"
		case !s.Scheduled:
			status = "[-]"
		}
		if s.Scheduled {
			scheduled++
			if s.Done {
				recorded++
			}
		}
		fmt.Printf("%s %s %s\n", status, s.Habit.Icon, s.Habit.Name)
	}

	fmt.Printf("\nRecorded: %d/%d\n", recorded, scheduled)
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if c.Days <= 0 {
		c.Days = constants.DefaultHistoryDays
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := t.Habits.Get(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		selected, err = t.Habits.List(false)
		if err != nil {
			return err
		}
	}

	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	start := utils.AddDays(today, -(c.Days - 1))

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)

	// Print header with dates
	const maxNameLen = 20
	fmt.Print(strings.Repeat(" ", maxNameLen))
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", utils.AddDays(start, i).Format("01/02"))
	}
	fmt.Println("   rate")
	fmt.Println(strings.Repeat("-", maxNameLen+c.Days*6+7))

	for _, habit := range selected {
		history, err := t.Habits.History(habit.ID, c.Days, today)
		if err != nil {
			return err
		}
		rate, err := t.Habits.CompletionRate(habit.ID, c.Days, today)
		if err != nil {
			return err
		}

		fmt.Print(padName(habit.Name, maxNameLen))
		for _, d := range history {
			switch {
			case d.Done:
				fmt.Print("  x   ")
			case d.Scheduled:
				fmt.Print("  .   ")
			default:
				fmt.Print("      ")
			}
		}
		fmt.Printf(" %5.0f%%\n", rate.Percent())
	}

	return nil
}

// padName truncates or pads name to width runes.
func padName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(runes))
}

type HabitEditCmd struct {
	Habit     string  `arg:"" help:"Habit name or ID."`
	Name      *string `help:"New name."`
	Icon      *string `help:"New icon."`
	Frequency *string `help:"New frequency: daily, weekdays, weekends or custom."`
	Days      *string `help:"Weekdays for a custom habit (e.g. mon,wed,fri)."`
	Reminder  *string `help:"New reminder time (HH:MM)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.Habits.Get(c.Habit)
	if err != nil {
		return err
	}

	if c.Name != nil {
		habit.Name = *c.Name
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
	}
	if c.Frequency != nil {
		freq, err := models.ParseHabitFrequency(*c.Frequency)
		if err != nil {
			return err
		}
		habit.Frequency = freq
	}
	if c.Days != nil {
		weekdays, err := utils.ParseWeekdays(*c.Days)
		if err != nil {
			return err
		}
		habit.Weekdays = weekdays
	}
	if c.Reminder != nil {
		habit.ReminderTime = *c.Reminder
	}

	updated, err := t.Habits.Update(habit)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s %s\n", updated.Icon, updated.Name)
	return nil
}

type HabitPauseCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitPauseCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := t.Habits.Get(c.Habit)
	if err != nil {
		return err
	}
	if _, err := t.Habits.Pause(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Paused habit: %s\n", habit.Name)
	return nil
}

type HabitResumeCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitResumeCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := t.Habits.Get(c.Habit)
	if err != nil {
		return err
	}
	if _, err := t.Habits.Resume(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Resumed habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := t.Habits.Get(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete habit %q and its %d completions?", habit.Name, habit.TotalCompletions))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := t.Habits.Delete(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
