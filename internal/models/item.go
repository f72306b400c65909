package models

import "github.com/shopspring/decimal"

// Item is a purchasable catalog entry. Items are owned by the catalog and
// never change once created.
type Item struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
}

// SeedItems is the catalog the storefront ships with.
// The SQLite store seeds the same rows through its migrations.
func SeedItems() []Item {
	return []Item{
		{ID: 1, Name: "Round Widget", Price: decimal.RequireFromString("2.99"), Description: "A widget that is round"},
		{ID: 2, Name: "Square Widget", Price: decimal.RequireFromString("1.99"), Description: "A widget that is square"},
		{ID: 3, Name: "Cuberdon", Price: decimal.RequireFromString("3.20"), Description: "cone-shaped candy with a melty core and a crisp crust"},
		{ID: 4, Name: "Vanparys", Price: decimal.RequireFromString("2.50"), Description: "coated with thin layers of sugar, and made in 50 colors"},
	}
}
