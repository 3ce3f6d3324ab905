package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Tasks struct{ *base }

type NewTask struct {
	Title       string
	Description string
	Category    models.TaskCategory
	Priority    models.TaskPriority
	Deadline    *time.Time
	ReminderAt  *time.Time
}

func (s *Tasks) Create(in NewTask) (models.Task, error) {
	task := models.Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
		ReminderAt:  in.ReminderAt,
		CreatedAt:   s.now(),
	}
	if task.Category == "" {
		task.Category = models.CategoryOther
	}

	if task.Title == "" {
		return models.Task{}, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	if _, err := models.ParseTaskCategory(string(task.Category)); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if task.Priority < models.PriorityLow || task.Priority > models.PriorityCritical {
		return models.Task{}, fmt.Errorf("%w: invalid priority %d", ErrInvalidInput, task.Priority)
	}

	if err := s.store.AddTask(task); err != nil {
		return models.Task{}, fmt.Errorf("failed to add task: %w", err)
	}

	warnSchedule("task", task.ID, s.sched.ScheduleTask(task))
	return task, nil
}

func (s *Tasks) Get(id string) (models.Task, error) {
	t, err := s.store.GetTask(id)
	if err != nil {
		return models.Task{}, fmt.Errorf("task %q: %w", id, err)
	}
	return t, nil
}

// Active returns open tasks by deadline (undated last), then priority.
func (s *Tasks) Active() ([]models.Task, error) {
	return s.store.GetActiveTasks()
}

// Completed returns up to limit completed tasks, most recent first. A
// non-positive limit uses the default.
func (s *Tasks) Completed(limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = constants.RecentCompletedTasks
	}
	return s.store.GetCompletedTasks(limit)
}

// DueOn returns open tasks whose deadline falls on day or earlier, in
// day's location.
func (s *Tasks) DueOn(day time.Time) ([]models.Task, error) {
	tasks, err := s.store.GetActiveTasks()
	if err != nil {
		return nil, err
	}
	d := utils.FormatDate(day)
	var due []models.Task
	for _, t := range tasks {
		if t.Deadline != nil && utils.FormatDate(t.Deadline.In(day.Location())) <= d {
			due = append(due, t)
		}
	}
	return due, nil
}

func (s *Tasks) Complete(id string, at time.Time) (models.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return models.Task{}, err
	}
	if task.Completed {
		return task, nil
	}

	task.Completed = true
	task.CompletedAt = &at
	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, fmt.Errorf("failed to complete task: %w", err)
	}

	warnSchedule("task", id, s.sched.CancelTask(id))
	return task, nil
}

// Postpone moves the deadline to days after now and counts the postponement.
// The reminder, if any, moves by the same amount.
func (s *Tasks) Postpone(id string, days int, now time.Time) (models.Task, error) {
	if days <= 0 {
		return models.Task{}, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	task, err := s.Get(id)
	if err != nil {
		return models.Task{}, err
	}
	if task.Completed {
		return models.Task{}, fmt.Errorf("%w: task %q is already completed", ErrInvalidInput, task.Title)
	}

	deadline := now.AddDate(0, 0, days)
	if task.ReminderAt != nil && task.Deadline != nil {
		at := task.ReminderAt.Add(deadline.Sub(*task.Deadline))
		task.ReminderAt = &at
	}
	task.Deadline = &deadline
	task.PostponeCount++

	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, fmt.Errorf("failed to postpone task: %w", err)
	}

	warnSchedule("task", id, s.sched.ScheduleTask(task))
	return task, nil
}

func (s *Tasks) TotalPostpones() (int, error) {
	return s.store.TotalPostponeCount()
}

func (s *Tasks) Delete(id string) error {
	if err := s.store.DeleteTask(id); err != nil {
		return fmt.Errorf("task %q: %w", id, err)
	}
	warnSchedule("task", id, s.sched.CancelTask(id))
	return nil
}
