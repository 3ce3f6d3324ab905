package tracker

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
)

type Groceries struct{ *base }

func (s *Groceries) Add(name, quantity, category string) (models.GroceryItem, error) {
	item := models.GroceryItem{
		ID:       s.newID(),
		Name:     strings.TrimSpace(name),
		Quantity: strings.TrimSpace(quantity),
		Category: strings.TrimSpace(category),
		AddedAt:  s.now(),
	}
	if item.Name == "" {
		return models.GroceryItem{}, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if item.Category == "" {
		item.Category = constants.DefaultGroceryCategory
	}

	if err := s.store.AddGroceryItem(item); err != nil {
		return models.GroceryItem{}, fmt.Errorf("failed to add grocery item: %w", err)
	}
	return item, nil
}

// List returns unpurchased items first, then by category and name.
func (s *Groceries) List(pendingOnly bool) ([]models.GroceryItem, error) {
	return s.store.GetGroceryItems(pendingOnly)
}

func (s *Groceries) SetPurchased(id string, purchased bool) error {
	if err := s.store.SetGroceryPurchased(id, purchased); err != nil {
		return fmt.Errorf("grocery item %q: %w", id, err)
	}
	return nil
}

// ClearPurchased deletes every purchased item and reports how many went.
func (s *Groceries) ClearPurchased() (int, error) {
	return s.store.ClearPurchasedGroceries()
}

func (s *Groceries) Delete(id string) error {
	if err := s.store.DeleteGroceryItem(id); err != nil {
		return fmt.Errorf("grocery item %q: %w", id, err)
	}
	return nil
}
