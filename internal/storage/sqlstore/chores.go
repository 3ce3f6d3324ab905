package sqlstore

import (
	"fmt"

	"github.com/julianstephens/lifeflow/internal/models"
)

const choreColumns = `id, name, room, frequency, reminder_hour, last_done_date, next_due_date, active, created_at`

func scanChore(row scanner) (models.Chore, error) {
	var c models.Chore
	var createdAt string

	err := row.Scan(&c.ID, &c.Name, &c.Room, &c.Frequency, &c.ReminderHour,
		&c.LastDoneDate, &c.NextDueDate, &c.Active, &createdAt)
	if err != nil {
		return models.Chore{}, err
	}

	c.CreatedAt, err = parseTime("created_at", createdAt)
	if err != nil {
		return models.Chore{}, err
	}
	return c, nil
}

func (s *Queries) collectChores(query string, args ...any) ([]models.Chore, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, err
		}
		chores = append(chores, c)
	}
	return chores, rows.Err()
}

func (s *Queries) AddChore(chore models.Chore) error {
	_, err := s.exec(`
		INSERT INTO chores (`+choreColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chore.ID, chore.Name, chore.Room, chore.Frequency, chore.ReminderHour,
		chore.LastDoneDate, chore.NextDueDate, chore.Active, formatTime(chore.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add chore: %w", err)
	}
	return nil
}

func (s *Queries) GetChore(id string) (models.Chore, error) {
	c, err := scanChore(s.queryRow(`SELECT `+choreColumns+` FROM chores WHERE id = ?`, id))
	return c, notFound(err)
}

// GetChores returns chores ordered by next due date with undated chores last.
func (s *Queries) GetChores(includeInactive bool) ([]models.Chore, error) {
	query := `SELECT ` + choreColumns + ` FROM chores`
	var args []any
	if !includeInactive {
		query += ` WHERE active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY next_due_date = '', next_due_date, name`
	return s.collectChores(query, args...)
}

// GetOverdueChores returns active chores whose next due date is strictly
// before today.
func (s *Queries) GetOverdueChores(today string) ([]models.Chore, error) {
	return s.collectChores(`
		SELECT `+choreColumns+` FROM chores
		WHERE active = ? AND next_due_date <> '' AND next_due_date < ?
		ORDER BY next_due_date, name`, true, today)
}

func (s *Queries) UpdateChore(chore models.Chore) error {
	return s.execOne(`
		UPDATE chores SET name = ?, room = ?, frequency = ?, reminder_hour = ?,
			last_done_date = ?, next_due_date = ?, active = ?
		WHERE id = ?`,
		chore.Name, chore.Room, chore.Frequency, chore.ReminderHour,
		chore.LastDoneDate, chore.NextDueDate, chore.Active, chore.ID)
}

func (s *Queries) DeleteChore(id string) error {
	return s.execOne(`DELETE FROM chores WHERE id = ?`, id)
}
