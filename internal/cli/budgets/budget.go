package budgets

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeflow/internal/budget"
	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type BudgetCmd struct {
	Add     BudgetAddCmd     `cmd:"" help:"Record an expense or income."`
	List    BudgetListCmd    `cmd:"" help:"List a month's transactions."`
	Summary BudgetSummaryCmd `cmd:"" help:"Show a month's totals against goals."`
	Goal    BudgetGoalCmd    `cmd:"" help:"Set a monthly spending goal for a category."`
	Delete  BudgetDeleteCmd  `cmd:"" help:"Delete a transaction."`
}

// month returns m, or the current month in the user's timezone.
func month(ctx *cli.Context, m string) (string, error) {
	if m != "" {
		return m, nil
	}
	now, err := ctx.Now()
	if err != nil {
		return "", err
	}
	return now.Format(constants.MonthFormat), nil
}

func currency(ctx *cli.Context) string {
	settings, err := ctx.Store.GetSettings()
	if err != nil || settings.CurrencySymbol == "" {
		return constants.DefaultCurrencySymbol
	}
	return settings.CurrencySymbol
}

type BudgetAddCmd struct {
	Title    string  `arg:"" help:"What the money was for."`
	Amount   float64 `arg:"" help:"Amount (positive)."`
	Income   bool    `help:"Record income instead of an expense."`
	Category string  `short:"c" help:"Expense category." default:"other"`
	Date     string  `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Note     string  `help:"Optional note." default:""`
}

func (c *BudgetAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	category, err := models.ParseExpenseCategory(c.Category)
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	typ := models.TransactionExpense
	if c.Income {
		typ = models.TransactionIncome
	}

	txn, err := t.Budget.AddTransaction(tracker.NewTransaction{
		Title:    c.Title,
		Amount:   c.Amount,
		Type:     typ,
		Category: category,
		Date:     utils.FormatDate(day),
		Note:     c.Note,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s: %s %s%.2f (%s, %s)\n", txn.Type, txn.Title, currency(ctx), txn.Amount, txn.Category, txn.Date)
	return nil
}

type BudgetListCmd struct {
	Month string `help:"Month in YYYY-MM format (default: this month)." default:""`
}

func (c *BudgetListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	m, err := month(ctx, c.Month)
	if err != nil {
		return err
	}

	txns, err := t.Budget.Month(m)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		fmt.Printf("No transactions in %s.\n", m)
		return nil
	}

	sym := currency(ctx)
	for _, txn := range txns {
		sign := "-"
		if txn.Type == models.TransactionIncome {
			sign = "+"
		}
		fmt.Printf("%-8s %s  %s%s%9.2f  %-14s %s\n",
			cli.ShortID(txn.ID), txn.Date, sign, sym, txn.Amount, txn.Category, txn.Title)
	}
	return nil
}

type BudgetSummaryCmd struct {
	Month string `help:"Month in YYYY-MM format (default: this month)." default:""`
}

func (c *BudgetSummaryCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	m, err := month(ctx, c.Month)
	if err != nil {
		return err
	}

	summary, err := t.Budget.Summary(m)
	if err != nil {
		return err
	}
	fmt.Print(FormatSummary(summary, currency(ctx)))
	return nil
}

// FormatSummary renders a month summary with one line per category.
func FormatSummary(s budget.Summary, sym string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Budget for %s\n\n", s.Month)
	fmt.Fprintf(&b, "  Income:   %s%.2f\n", sym, s.Income)
	fmt.Fprintf(&b, "  Expenses: %s%.2f\n", sym, s.Expenses)
	fmt.Fprintf(&b, "  Balance:  %s%.2f\n", sym, s.Balance())

	if len(s.Categories) > 0 {
		b.WriteString("\n")
	}
	for _, cat := range s.Categories {
		line := fmt.Sprintf("  %-14s %s%.2f", cat.Category, sym, cat.Spent)
		if cat.HasGoal {
			line += fmt.Sprintf(" of %s%.2f", sym, cat.Limit)
			if cat.OverBudget() {
				line += fmt.Sprintf("  ⚠ over by %s%.2f", sym, -cat.Remaining())
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

type BudgetGoalCmd struct {
	Category string  `arg:"" help:"Expense category."`
	Limit    float64 `arg:"" help:"Monthly limit."`
	Month    string  `help:"Month in YYYY-MM format (default: this month)." default:""`
}

func (c *BudgetGoalCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	category, err := models.ParseExpenseCategory(c.Category)
	if err != nil {
		return err
	}
	m, err := month(ctx, c.Month)
	if err != nil {
		return err
	}

	goal, err := t.Budget.SetGoal(category, c.Limit, m)
	if err != nil {
		return err
	}
	fmt.Printf("Goal for %s in %s: %s%.2f\n", goal.Category, goal.Month, currency(ctx), goal.MonthlyLimit)
	return nil
}

type BudgetDeleteCmd struct {
	Transaction string `arg:"" help:"Transaction ID or ID prefix."`
	Month       string `help:"Month to search for an ID prefix (default: this month)." default:""`
}

func (c *BudgetDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	m, err := month(ctx, c.Month)
	if err != nil {
		return err
	}
	txns, err := t.Budget.Month(m)
	if err != nil {
		return err
	}

	id := c.Transaction
	if txn, err := cli.Resolve(txns, func(t models.Transaction) string { return t.ID }, c.Transaction, "transaction"); err == nil {
		id = txn.ID
	}
	if err := t.Budget.Delete(id); err != nil {
		return err
	}
	fmt.Println("Deleted transaction.")
	return nil
}
