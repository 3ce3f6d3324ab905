package sqlstore

import (
	"fmt"

	"github.com/julianstephens/lifeflow/internal/models"
)

const groceryColumns = `id, name, quantity, category, purchased, added_at`

func scanGroceryItem(row scanner) (models.GroceryItem, error) {
	var g models.GroceryItem
	var addedAt string

	err := row.Scan(&g.ID, &g.Name, &g.Quantity, &g.Category, &g.Purchased, &addedAt)
	if err != nil {
		return models.GroceryItem{}, err
	}
	g.AddedAt, err = parseTime("added_at", addedAt)
	return g, err
}

func (s *Queries) AddGroceryItem(item models.GroceryItem) error {
	_, err := s.exec(`
		INSERT INTO grocery_items (`+groceryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Quantity, item.Category, item.Purchased, formatTime(item.AddedAt))
	if err != nil {
		return fmt.Errorf("failed to add grocery item: %w", err)
	}
	return nil
}

func (s *Queries) GetGroceryItem(id string) (models.GroceryItem, error) {
	g, err := scanGroceryItem(s.queryRow(`SELECT `+groceryColumns+` FROM grocery_items WHERE id = ?`, id))
	return g, notFound(err)
}

// GetGroceryItems lists unpurchased items first, grouped by category.
func (s *Queries) GetGroceryItems(pendingOnly bool) ([]models.GroceryItem, error) {
	query := `SELECT ` + groceryColumns + ` FROM grocery_items`
	var args []any
	if pendingOnly {
		query += ` WHERE purchased = ?`
		args = append(args, false)
	}
	query += ` ORDER BY purchased, category, name`

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GroceryItem
	for rows.Next() {
		g, err := scanGroceryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *Queries) SetGroceryPurchased(id string, purchased bool) error {
	return s.execOne(`UPDATE grocery_items SET purchased = ? WHERE id = ?`, purchased, id)
}

func (s *Queries) DeleteGroceryItem(id string) error {
	return s.execOne(`DELETE FROM grocery_items WHERE id = ?`, id)
}

// ClearPurchasedGroceries deletes every purchased item and reports how many
// were removed.
func (s *Queries) ClearPurchasedGroceries() (int, error) {
	res, err := s.exec(`DELETE FROM grocery_items WHERE purchased = ?`, true)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
