package api

import "github.com/shopspring/decimal"

// Money amounts are decimals encoded as JSON strings, e.g. "7.97".

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

// CartLine groups the identical units of a cart.
type CartLine struct {
	Item     Item            `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Items    []Item          `json:"items"`
	Lines    []CartLine      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

type Order struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt int64           `json:"created_at"`
}

// UserService

type CreateUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type CreateUserResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token in the body as well as in the
// Authorization response header.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AccountService

type GetUserByUsernameRequest struct {
	Username string `json:"username"`
}

type GetUserByIDRequest struct {
	ID string `json:"id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

// ItemService

type GetItemRequest struct {
	ID int64 `json:"id"`
}

type GetItemResponse struct {
	Item Item `json:"item"`
}

type GetItemsByNameRequest struct {
	Name string `json:"name"`
}

type ListItemsRequest struct{}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

// CartService

type AddToCartRequest struct {
	Username string `json:"username"`
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type RemoveFromCartRequest struct {
	Username string `json:"username"`
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type CartResponse struct {
	Cart Cart `json:"cart"`
}

// OrderService

type SubmitRequest struct {
	Username string `json:"username"`
}

type SubmitResponse struct {
	Order Order `json:"order"`
}

type HistoryRequest struct {
	Username string `json:"username"`
}

type HistoryResponse struct {
	Orders []Order `json:"orders"`
}
