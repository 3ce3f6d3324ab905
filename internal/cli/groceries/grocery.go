package groceries

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
)

type GroceryCmd struct {
	Add    GroceryAddCmd    `cmd:"" help:"Add an item to the shopping list."`
	List   GroceryListCmd   `cmd:"" help:"Show the shopping list."`
	Buy    GroceryBuyCmd    `cmd:"" help:"Mark an item as purchased."`
	Unbuy  GroceryUnbuyCmd  `cmd:"" help:"Put a purchased item back on the list."`
	Clear  GroceryClearCmd  `cmd:"" help:"Remove all purchased items."`
	Delete GroceryDeleteCmd `cmd:"" help:"Remove an item."`
}

// find resolves an item by case-insensitive name (pending items first), then
// by ID or ID prefix.
func find(t *tracker.Tracker, ref string) (models.GroceryItem, error) {
	items, err := t.Groceries.List(false)
	if err != nil {
		return models.GroceryItem{}, err
	}
	for _, item := range items {
		if strings.EqualFold(item.Name, ref) {
			return item, nil
		}
	}
	return cli.Resolve(items, func(i models.GroceryItem) string { return i.ID }, ref, "grocery item")
}

func describe(item models.GroceryItem) string {
	if item.Quantity == "" {
		return item.Name
	}
	return fmt.Sprintf("%s (%s)", item.Name, item.Quantity)
}

type GroceryAddCmd struct {
	Name     string `arg:"" help:"Item name."`
	Quantity string `short:"q" help:"Quantity, e.g. \"2 kg\"." default:""`
	Category string `short:"c" help:"Aisle or category." default:""`
}

func (c *GroceryAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	item, err := t.Groceries.Add(c.Name, c.Quantity, c.Category)
	if err != nil {
		return err
	}
	fmt.Printf("Added to list: %s\n", describe(item))
	return nil
}

type GroceryListCmd struct {
	Pending bool `help:"Hide purchased items."`
}

func (c *GroceryListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	items, err := t.Groceries.List(c.Pending)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Shopping list is empty.")
		return nil
	}

	category := ""
	purchasedHeader := false
	for _, item := range items {
		switch {
		case item.Purchased && !purchasedHeader:
			purchasedHeader = true
			fmt.Printf("\nIn the basket\n")
		case !item.Purchased && item.Category != category:
			category = item.Category
			fmt.Printf("\n%s\n", category)
		}
		mark := "[ ]"
		if item.Purchased {
			mark = "[x]"
		}
		fmt.Printf("  %s %s\n", mark, describe(item))
	}
	return nil
}

type GroceryBuyCmd struct {
	Item string `arg:"" help:"Item name or ID."`
}

func (c *GroceryBuyCmd) Run(ctx *cli.Context) error {
	return setPurchased(ctx, c.Item, true)
}

type GroceryUnbuyCmd struct {
	Item string `arg:"" help:"Item name or ID."`
}

func (c *GroceryUnbuyCmd) Run(ctx *cli.Context) error {
	return setPurchased(ctx, c.Item, false)
}

func setPurchased(ctx *cli.Context, ref string, purchased bool) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	item, err := find(t, ref)
	if err != nil {
		return err
	}
	if err := t.Groceries.SetPurchased(item.ID, purchased); err != nil {
		return err
	}
	if purchased {
		fmt.Printf("✓ Bought %s\n", describe(item))
	} else {
		fmt.Printf("Back on the list: %s\n", describe(item))
	}
	return nil
}

type GroceryClearCmd struct{}

func (c *GroceryClearCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	n, err := t.Groceries.ClearPurchased()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d purchased item(s).\n", n)
	return nil
}

type GroceryDeleteCmd struct {
	Item string `arg:"" help:"Item name or ID."`
}

func (c *GroceryDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	item, err := find(t, c.Item)
	if err != nil {
		return err
	}
	if err := t.Groceries.Delete(item.ID); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", describe(item))
	return nil
}
