package sqlstore

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeflow/internal/models"
)

const transactionColumns = `id, title, amount, type, category, date, note, created_at`

func scanTransaction(row scanner) (models.Transaction, error) {
	var t models.Transaction
	var createdAt string

	err := row.Scan(&t.ID, &t.Title, &t.Amount, &t.Type, &t.Category, &t.Date, &t.Note, &createdAt)
	if err != nil {
		return models.Transaction{}, err
	}
	t.CreatedAt, err = parseTime("created_at", createdAt)
	return t, err
}

func (s *Queries) AddTransaction(t models.Transaction) error {
	_, err := s.exec(`
		INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Amount, t.Type, t.Category, t.Date, t.Note, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	return nil
}

func (s *Queries) GetTransaction(id string) (models.Transaction, error) {
	t, err := scanTransaction(s.queryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	return t, notFound(err)
}

// GetTransactions returns transactions dated within [startDay, endDay],
// newest first.
func (s *Queries) GetTransactions(startDay, endDay string) ([]models.Transaction, error) {
	rows, err := s.query(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE date >= ? AND date <= ? ORDER BY date DESC, created_at DESC`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *Queries) DeleteTransaction(id string) error {
	return s.execOne(`DELETE FROM transactions WHERE id = ?`, id)
}

// SetBudgetGoal creates or replaces the goal for (category, month).
func (s *Queries) SetBudgetGoal(goal models.BudgetGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	_, err := s.exec(`
		INSERT INTO budget_goals (id, category, monthly_limit, month) VALUES (?, ?, ?, ?)
		ON CONFLICT (category, month) DO UPDATE SET monthly_limit = excluded.monthly_limit`,
		goal.ID, goal.Category, goal.MonthlyLimit, goal.Month)
	if err != nil {
		return fmt.Errorf("failed to save budget goal: %w", err)
	}
	return nil
}

func (s *Queries) collectGoals(query string, args ...any) ([]models.BudgetGoal, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.BudgetGoal
	for rows.Next() {
		var g models.BudgetGoal
		if err := rows.Scan(&g.ID, &g.Category, &g.MonthlyLimit, &g.Month); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Queries) GetBudgetGoals(month string) ([]models.BudgetGoal, error) {
	return s.collectGoals(`
		SELECT id, category, monthly_limit, month FROM budget_goals
		WHERE month = ? ORDER BY category`, month)
}

func (s *Queries) GetAllBudgetGoals() ([]models.BudgetGoal, error) {
	return s.collectGoals(`
		SELECT id, category, monthly_limit, month FROM budget_goals ORDER BY month, category`)
}
