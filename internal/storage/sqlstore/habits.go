package sqlstore

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

const habitColumns = `id, name, icon, frequency, weekdays, reminder_time, active,
	current_streak, longest_streak, total_completions, last_completed_date, created_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var weekdays, createdAt string

	err := row.Scan(&h.ID, &h.Name, &h.Icon, &h.Frequency, &weekdays, &h.ReminderTime, &h.Active,
		&h.CurrentStreak, &h.LongestStreak, &h.TotalCompletions, &h.LastCompletedDate, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	if weekdays != "" {
		h.Weekdays, err = utils.ParseWeekdays(weekdays)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse weekdays for habit %s: %w", h.ID, err)
		}
	}

	h.CreatedAt, err = parseTime("created_at", createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	return h, nil
}

func (s *Queries) AddHabit(habit models.Habit) error {
	_, err := s.exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Icon, habit.Frequency, utils.FormatWeekdays(habit.Weekdays),
		habit.ReminderTime, habit.Active, habit.CurrentStreak, habit.LongestStreak,
		habit.TotalCompletions, habit.LastCompletedDate, formatTime(habit.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *Queries) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	return h, notFound(err)
}

func (s *Queries) GetHabitByName(name string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name))
	return h, notFound(err)
}

func (s *Queries) GetHabits(includeInactive bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	var args []any
	if !includeInactive {
		query += ` WHERE active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name`

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Queries) UpdateHabit(habit models.Habit) error {
	return s.execOne(`
		UPDATE habits SET name = ?, icon = ?, frequency = ?, weekdays = ?, reminder_time = ?,
			active = ?, current_streak = ?, longest_streak = ?, total_completions = ?,
			last_completed_date = ?
		WHERE id = ?`,
		habit.Name, habit.Icon, habit.Frequency, utils.FormatWeekdays(habit.Weekdays),
		habit.ReminderTime, habit.Active, habit.CurrentStreak, habit.LongestStreak,
		habit.TotalCompletions, habit.LastCompletedDate, habit.ID)
}

// DeleteHabit removes the habit and all of its logs.
func (s *Queries) DeleteHabit(id string) error {
	if _, err := s.exec(`DELETE FROM habit_logs WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}
	return s.execOne(`DELETE FROM habits WHERE id = ?`, id)
}

const habitLogColumns = `id, habit_id, date, completed`

func scanHabitLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	err := row.Scan(&l.ID, &l.HabitID, &l.Date, &l.Completed)
	return l, err
}

func (s *Queries) collectHabitLogs(query string, args ...any) ([]models.HabitLog, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Queries) GetHabitLog(habitID, day string) (models.HabitLog, error) {
	l, err := scanHabitLog(s.queryRow(`
		SELECT `+habitLogColumns+` FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, day))
	return l, notFound(err)
}

func (s *Queries) PutHabitLog(log models.HabitLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	_, err := s.exec(`
		INSERT INTO habit_logs (id, habit_id, date, completed) VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = excluded.completed`,
		log.ID, log.HabitID, log.Date, log.Completed)
	if err != nil {
		return fmt.Errorf("failed to save habit log: %w", err)
	}
	return nil
}

// GetHabitLogs returns the most recent logs of a habit, newest first.
func (s *Queries) GetHabitLogs(habitID string, limit int) ([]models.HabitLog, error) {
	return s.collectHabitLogs(`
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? ORDER BY date DESC LIMIT ?`, habitID, limit)
}

func (s *Queries) GetHabitLogsBetween(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.collectHabitLogs(`
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? AND date >= ? AND date <= ? ORDER BY date`, habitID, startDay, endDay)
}

func (s *Queries) GetHabitLogsForDay(day string) ([]models.HabitLog, error) {
	return s.collectHabitLogs(`
		SELECT `+habitLogColumns+` FROM habit_logs WHERE date = ? ORDER BY habit_id`, day)
}

func (s *Queries) GetAllHabitLogs() ([]models.HabitLog, error) {
	return s.collectHabitLogs(`
		SELECT ` + habitLogColumns + ` FROM habit_logs ORDER BY date, habit_id`)
}

func (s *Queries) CountCompletionsSince(habitID, day string) (int, error) {
	var count int
	err := s.queryRow(`
		SELECT COUNT(*) FROM habit_logs
		WHERE habit_id = ? AND completed = ? AND date >= ?`, habitID, true, day).Scan(&count)
	return count, err
}
