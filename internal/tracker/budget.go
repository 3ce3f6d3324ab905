package tracker

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/lifeflow/internal/budget"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Budget struct{ *base }

type NewTransaction struct {
	Title    string
	Amount   float64
	Type     models.TransactionType
	Category models.ExpenseCategory
	Date     string
	Note     string
}

func (s *Budget) AddTransaction(in NewTransaction) (models.Transaction, error) {
	txn := models.Transaction{
		ID:        s.newID(),
		Title:     strings.TrimSpace(in.Title),
		Amount:    in.Amount,
		Type:      in.Type,
		Category:  in.Category,
		Date:      in.Date,
		Note:      in.Note,
		CreatedAt: s.now(),
	}
	if txn.Type == "" {
		txn.Type = models.TransactionExpense
	}
	if txn.Category == "" {
		txn.Category = models.ExpenseOther
	}
	if txn.Date == "" {
		txn.Date = utils.FormatDate(txn.CreatedAt)
	}

	if txn.Title == "" {
		return models.Transaction{}, fmt.Errorf("%w: transaction title is required", ErrInvalidInput)
	}
	if !(txn.Amount > 0) || math.IsInf(txn.Amount, 0) {
		return models.Transaction{}, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if txn.Type != models.TransactionIncome && txn.Type != models.TransactionExpense {
		return models.Transaction{}, fmt.Errorf("%w: invalid transaction type %q", ErrInvalidInput, txn.Type)
	}
	if _, err := models.ParseExpenseCategory(string(txn.Category)); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := utils.ParseDate(txn.Date); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.store.AddTransaction(txn); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to add transaction: %w", err)
	}
	return txn, nil
}

// Month returns the transactions dated in month (YYYY-MM).
func (s *Budget) Month(month string) ([]models.Transaction, error) {
	start, end, err := budget.MonthRange(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.store.GetTransactions(start, end)
}

func (s *Budget) Delete(id string) error {
	if err := s.store.DeleteTransaction(id); err != nil {
		return fmt.Errorf("transaction %q: %w", id, err)
	}
	return nil
}

// SetGoal sets the spending limit for category in month, replacing any
// existing goal.
func (s *Budget) SetGoal(category models.ExpenseCategory, limit float64, month string) (models.BudgetGoal, error) {
	if _, err := models.ParseExpenseCategory(string(category)); err != nil {
		return models.BudgetGoal{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !(limit > 0) || math.IsInf(limit, 0) {
		return models.BudgetGoal{}, fmt.Errorf("%w: limit must be greater than zero", ErrInvalidInput)
	}
	if _, err := time.Parse(constants.MonthFormat, month); err != nil {
		return models.BudgetGoal{}, fmt.Errorf("%w: invalid month %q (expected YYYY-MM)", ErrInvalidInput, month)
	}

	goal := models.BudgetGoal{Category: category, MonthlyLimit: limit, Month: month}
	if err := s.store.SetBudgetGoal(goal); err != nil {
		return models.BudgetGoal{}, fmt.Errorf("failed to set budget goal: %w", err)
	}
	return goal, nil
}

func (s *Budget) Goals(month string) ([]models.BudgetGoal, error) {
	return s.store.GetBudgetGoals(month)
}

func (s *Budget) Summary(month string) (budget.Summary, error) {
	txns, err := s.Month(month)
	if err != nil {
		return budget.Summary{}, err
	}
	goals, err := s.store.GetBudgetGoals(month)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.Summarize(month, txns, goals), nil
}
