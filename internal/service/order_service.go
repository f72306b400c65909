package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/pkg/api"
)

// OrderService implements the Connect OrderService
type OrderService struct {
	engine *shop.OrderEngine
	logger *slog.Logger
}

var _ api.OrderServiceHandler = (*OrderService)(nil)

// NewOrderService creates a new OrderService.
func NewOrderService(engine *shop.OrderEngine, logger *slog.Logger) *OrderService {
	return &OrderService{engine: engine, logger: logger}
}

// Submit turns the caller's cart into a new order.
func (s *OrderService) Submit(ctx context.Context, req *connect.Request[api.SubmitRequest]) (*connect.Response[api.SubmitResponse], error) {
	username, err := resolveUsername(ctx, req.Msg.Username)
	if err != nil {
		return nil, err
	}

	order, err := s.engine.Submit(ctx, username)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}

	s.logger.Info("Order submitted", "username", username, "order_id", order.ID, "items", len(order.Items), "total", order.Total.String())
	return connect.NewResponse(&api.SubmitResponse{Order: toAPIOrder(order)}), nil
}

// History lists the caller's orders, oldest first.
func (s *OrderService) History(ctx context.Context, req *connect.Request[api.HistoryRequest]) (*connect.Response[api.HistoryResponse], error) {
	username, err := resolveUsername(ctx, req.Msg.Username)
	if err != nil {
		return nil, err
	}

	orders, err := s.engine.History(ctx, username)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}

	resp := &api.HistoryResponse{Orders: make([]api.Order, len(orders))}
	for i, order := range orders {
		resp.Orders[i] = toAPIOrder(order)
	}
	return connect.NewResponse(resp), nil
}
