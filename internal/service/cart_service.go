package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/pkg/api"
)

// CartService implements the Connect CartService
type CartService struct {
	engine *shop.CartEngine
	logger *slog.Logger
}

var _ api.CartServiceHandler = (*CartService)(nil)

// NewCartService creates a new CartService.
func NewCartService(engine *shop.CartEngine, logger *slog.Logger) *CartService {
	return &CartService{engine: engine, logger: logger}
}

// AddToCart adds units of an item to the caller's cart.
func (s *CartService) AddToCart(ctx context.Context, req *connect.Request[api.AddToCartRequest]) (*connect.Response[api.CartResponse], error) {
	username, err := resolveUsername(ctx, req.Msg.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddToCart request", "username", username, "item_id", req.Msg.ItemID, "quantity", req.Msg.Quantity)

	cart, err := s.engine.AddItem(ctx, username, req.Msg.ItemID, req.Msg.Quantity)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CartResponse{Cart: toAPICart(cart, username)}), nil
}

// RemoveFromCart removes units of an item from the caller's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, req *connect.Request[api.RemoveFromCartRequest]) (*connect.Response[api.CartResponse], error) {
	username, err := resolveUsername(ctx, req.Msg.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("RemoveFromCart request", "username", username, "item_id", req.Msg.ItemID, "quantity", req.Msg.Quantity)

	cart, err := s.engine.RemoveItem(ctx, username, req.Msg.ItemID, req.Msg.Quantity)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.CartResponse{Cart: toAPICart(cart, username)}), nil
}
