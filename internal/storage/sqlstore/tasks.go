package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/lifeflow/internal/models"
)

const taskColumns = `id, title, description, category, priority, deadline, reminder_at,
	completed, postpone_count, created_at, completed_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var createdAt string
	var deadline, reminderAt, completedAt sql.NullString

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &deadline, &reminderAt,
		&t.Completed, &t.PostponeCount, &createdAt, &completedAt)
	if err != nil {
		return models.Task{}, err
	}

	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Task{}, err
	}
	if t.Deadline, err = parseTimePtr("deadline", deadline); err != nil {
		return models.Task{}, err
	}
	if t.ReminderAt, err = parseTimePtr("reminder_at", reminderAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseTimePtr("completed_at", completedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Queries) collectTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Queries) AddTask(task models.Task) error {
	_, err := s.exec(`
		INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Category, task.Priority,
		formatTimePtr(task.Deadline), formatTimePtr(task.ReminderAt), task.Completed,
		task.PostponeCount, formatTime(task.CreatedAt), formatTimePtr(task.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Queries) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.queryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	return t, notFound(err)
}

func (s *Queries) GetAllTasks() ([]models.Task, error) {
	return s.collectTasks(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`)
}

// GetActiveTasks returns incomplete tasks by deadline (undated last), then
// highest priority first.
func (s *Queries) GetActiveTasks() ([]models.Task, error) {
	return s.collectTasks(`
		SELECT `+taskColumns+` FROM tasks WHERE completed = ?
		ORDER BY deadline IS NULL, deadline, priority DESC, created_at`, false)
}

// GetCompletedTasks returns the most recently completed tasks first.
func (s *Queries) GetCompletedTasks(limit int) ([]models.Task, error) {
	return s.collectTasks(`
		SELECT `+taskColumns+` FROM tasks WHERE completed = ?
		ORDER BY completed_at DESC LIMIT ?`, true, limit)
}

func (s *Queries) UpdateTask(task models.Task) error {
	return s.execOne(`
		UPDATE tasks SET title = ?, description = ?, category = ?, priority = ?, deadline = ?,
			reminder_at = ?, completed = ?, postpone_count = ?, completed_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.Category, task.Priority, formatTimePtr(task.Deadline),
		formatTimePtr(task.ReminderAt), task.Completed, task.PostponeCount,
		formatTimePtr(task.CompletedAt), task.ID)
}

func (s *Queries) DeleteTask(id string) error {
	return s.execOne(`DELETE FROM tasks WHERE id = ?`, id)
}

func (s *Queries) TotalPostponeCount() (int, error) {
	var total int
	err := s.queryRow(`SELECT COALESCE(SUM(postpone_count), 0) FROM tasks`).Scan(&total)
	return total, err
}
