package models

import "time"

type GroceryItem struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Quantity  string    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Category  string    `json:"category" yaml:"category"`
	Purchased bool      `json:"purchased" yaml:"purchased"`
	AddedAt   time.Time `json:"added_at" yaml:"added_at"`
}
