package sqlstore

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeflow/internal/models"
)

const reminderColumns = `kind, entity_id, title, body, hour, minute, day, last_fired_day, updated_at`

func scanReminder(row scanner) (models.Reminder, error) {
	var r models.Reminder
	var updatedAt string

	err := row.Scan(&r.Kind, &r.EntityID, &r.Title, &r.Body, &r.Hour, &r.Minute,
		&r.Day, &r.LastFiredDay, &updatedAt)
	if err != nil {
		return models.Reminder{}, err
	}
	r.UpdatedAt, err = parseTime("updated_at", updatedAt)
	return r, err
}

// PutReminder creates or replaces a reminder. The last fired day of an
// existing reminder is preserved.
func (s *Queries) PutReminder(r models.Reminder) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	_, err := s.exec(`
		INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, entity_id) DO UPDATE SET
			title = excluded.title, body = excluded.body, hour = excluded.hour,
			minute = excluded.minute, day = excluded.day, updated_at = excluded.updated_at`,
		r.Kind, r.EntityID, r.Title, r.Body, r.Hour, r.Minute, r.Day, r.LastFiredDay,
		formatTime(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	return nil
}

func (s *Queries) GetReminder(kind models.ReminderKind, entityID string) (models.Reminder, error) {
	r, err := scanReminder(s.queryRow(`
		SELECT `+reminderColumns+` FROM reminders WHERE kind = ? AND entity_id = ?`, kind, entityID))
	return r, notFound(err)
}

func (s *Queries) GetReminders() ([]models.Reminder, error) {
	rows, err := s.query(`SELECT ` + reminderColumns + ` FROM reminders ORDER BY hour, minute, kind, entity_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// DeleteReminder is a no-op when the reminder does not exist.
func (s *Queries) DeleteReminder(kind models.ReminderKind, entityID string) error {
	_, err := s.exec(`DELETE FROM reminders WHERE kind = ? AND entity_id = ?`, kind, entityID)
	return err
}

func (s *Queries) MarkReminderFired(kind models.ReminderKind, entityID, day string) error {
	return s.execOne(`
		UPDATE reminders SET last_fired_day = ? WHERE kind = ? AND entity_id = ?`, day, kind, entityID)
}
