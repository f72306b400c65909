package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/storefront/internal/models"
)

// Line groups identical items of a cart for display.
type Line struct {
	Item     models.Item
	Quantity int
	Subtotal decimal.Decimal
}

// Total sums the prices of all items.
// An empty sequence totals zero.
func Total(items []models.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

// AddUnits appends quantity copies of item to items and returns the result.
// A non-positive quantity leaves items unchanged.
func AddUnits(items []models.Item, item models.Item, quantity int) []models.Item {
	for i := 0; i < quantity; i++ {
		items = append(items, item)
	}
	return items
}

// RemoveUnits removes up to quantity entries whose ID is itemID, earliest
// first, and returns the remaining items together with the number removed.
// If fewer than quantity entries match, all matching entries are removed.
func RemoveUnits(items []models.Item, itemID int64, quantity int) ([]models.Item, int) {
	remaining := make([]models.Item, 0, len(items))
	removed := 0
	for _, item := range items {
		if item.ID == itemID && removed < quantity {
			removed++
			continue
		}
		remaining = append(remaining, item)
	}
	return remaining, removed
}

// Lines groups items by ID in order of first appearance.
func Lines(items []models.Item) []Line {
	var lines []Line
	index := make(map[int64]int)
	for _, item := range items {
		i, ok := index[item.ID]
		if !ok {
			index[item.ID] = len(lines)
			lines = append(lines, Line{Item: item, Subtotal: decimal.Zero})
			i = len(lines) - 1
		}
		lines[i].Quantity++
		lines[i].Subtotal = lines[i].Subtotal.Add(item.Price)
	}
	return lines
}
