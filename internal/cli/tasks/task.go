package tasks

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type TaskCmd struct {
	Add      TaskAddCmd      `cmd:"" help:"Add a new task."`
	List     TaskListCmd     `cmd:"" help:"List open tasks."`
	Today    TaskTodayCmd    `cmd:"" help:"Show tasks due today or earlier."`
	Done     TaskDoneCmd     `cmd:"" help:"Complete a task."`
	Postpone TaskPostponeCmd `cmd:"" help:"Move a task's deadline."`
	Delete   TaskDeleteCmd   `cmd:"" help:"Delete a task."`
	Stats    TaskStatsCmd    `cmd:"" help:"Show task statistics."`
}

// find resolves an open or recently completed task by ID or ID prefix.
func find(t *tracker.Tracker, ref string) (models.Task, error) {
	if task, err := t.Tasks.Get(ref); err == nil {
		return task, nil
	}
	active, err := t.Tasks.Active()
	if err != nil {
		return models.Task{}, err
	}
	completed, err := t.Tasks.Completed(0)
	if err != nil {
		return models.Task{}, err
	}
	return cli.Resolve(append(active, completed...), func(t models.Task) string { return t.ID }, ref, "task")
}

func formatTask(task models.Task, loc *time.Location) string {
	deadline := "no deadline"
	if task.Deadline != nil {
		deadline = "due " + task.Deadline.In(loc).Format(constants.DateTimeFormat)
	}
	postponed := ""
	if task.PostponeCount > 0 {
		postponed = fmt.Sprintf(" (postponed %dx)", task.PostponeCount)
	}
	return fmt.Sprintf("%-8s [%-8s] %-30s %-14s %s%s",
		cli.ShortID(task.ID), task.Priority, task.Title, task.Category, deadline, postponed)
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `help:"Longer description." default:""`
	Category    string `help:"research, paper_writing, meeting, admin, prep or other." default:"other"`
	Priority    string `help:"low, medium, high or critical." default:"medium"`
	Deadline    string `help:"Deadline (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")." default:""`
	Remind      string `help:"Reminder time (YYYY-MM-DD HH:MM)." default:""`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	category, err := models.ParseTaskCategory(c.Category)
	if err != nil {
		return err
	}
	priority, err := models.ParseTaskPriority(c.Priority)
	if err != nil {
		return err
	}

	in := tracker.NewTask{
		Title:       c.Title,
		Description: c.Description,
		Category:    category,
		Priority:    priority,
	}
	if c.Deadline != "" {
		deadline, err := utils.ParseDateTimeInLocation(c.Deadline, loc)
		if err != nil {
			return err
		}
		in.Deadline = &deadline
	}
	if c.Remind != "" {
		at, err := utils.ParseDateTimeInLocation(c.Remind, loc)
		if err != nil {
			return err
		}
		in.ReminderAt = &at
	}

	task, err := t.Tasks.Create(in)
	if err != nil {
		return err
	}

	fmt.Printf("Added task: %s\n", formatTask(task, loc))
	return nil
}

type TaskListCmd struct {
	Completed bool `help:"Show recently completed tasks instead."`
	Limit     int  `help:"Number of completed tasks to show." default:"30"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	var tasks []models.Task
	if c.Completed {
		tasks, err = t.Tasks.Completed(c.Limit)
	} else {
		tasks, err = t.Tasks.Active()
	}
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}
	for _, task := range tasks {
		fmt.Println(formatTask(task, loc))
	}
	return nil
}

type TaskTodayCmd struct{}

func (c *TaskTodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	due, err := t.Tasks.DueOn(now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println("Nothing due today.")
		return nil
	}

	fmt.Printf("Due by %s:\n\n", utils.FormatDate(now))
	for _, task := range due {
		fmt.Println(formatTask(task, now.Location()))
	}
	return nil
}

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	task, err := find(t, c.Task)
	if err != nil {
		return err
	}

	if _, err := t.Tasks.Complete(task.ID, now); err != nil {
		return err
	}
	fmt.Printf("✓ Completed: %s\n", task.Title)
	return nil
}

type TaskPostponeCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
	Days int    `help:"Days from now for the new deadline." default:"1"`
}

func (c *TaskPostponeCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	task, err := find(t, c.Task)
	if err != nil {
		return err
	}

	updated, err := t.Tasks.Postpone(task.ID, c.Days, now)
	if err != nil {
		return err
	}
	fmt.Printf("Postponed %s to %s (postponed %dx)\n",
		updated.Title, updated.Deadline.In(now.Location()).Format(constants.DateTimeFormat), updated.PostponeCount)
	return nil
}

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	task, err := find(t, c.Task)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete task %q?", task.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := t.Tasks.Delete(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}

type TaskStatsCmd struct{}

func (c *TaskStatsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	active, err := t.Tasks.Active()
	if err != nil {
		return err
	}
	completed, err := t.Tasks.Completed(0)
	if err != nil {
		return err
	}
	due, err := t.Tasks.DueOn(now)
	if err != nil {
		return err
	}
	postpones, err := t.Tasks.TotalPostpones()
	if err != nil {
		return err
	}

	byPriority := make(map[models.TaskPriority]int)
	for _, task := range active {
		byPriority[task.Priority]++
	}

	fmt.Printf("Open tasks:        %d\n", len(active))
	fmt.Printf("Due today:         %d\n", len(due))
	fmt.Printf("Recently done:     %d\n", len(completed))
	fmt.Printf("Total postpones:   %d\n", postpones)
	fmt.Println()
	for p := models.PriorityCritical; p >= models.PriorityLow; p-- {
		fmt.Printf("  %-10s %d\n", p, byPriority[p])
	}
	return nil
}
