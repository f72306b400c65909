package service

import (
	"github.com/mmynk/storefront/internal/calculator"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/pkg/api"
)

func toAPIUser(user *models.User) api.User {
	return api.User{
		ID:       user.ID,
		Username: user.Username,
	}
}

func toAPIItem(item models.Item) api.Item {
	return api.Item{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
	}
}

func toAPIItems(items []models.Item) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = toAPIItem(item)
	}
	return out
}

func toAPICart(cart *models.Cart, username string) api.Cart {
	lines := calculator.Lines(cart.Items)
	apiLines := make([]api.CartLine, len(lines))
	for i, line := range lines {
		apiLines[i] = api.CartLine{
			Item:     toAPIItem(line.Item),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal,
		}
	}

	return api.Cart{
		ID:       cart.ID,
		Username: username,
		Items:    toAPIItems(cart.Items),
		Lines:    apiLines,
		Total:    cart.Total,
	}
}

func toAPIOrder(order *models.Order) api.Order {
	return api.Order{
		ID:        order.ID,
		Username:  order.Username,
		Items:     toAPIItems(order.Items),
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
}
