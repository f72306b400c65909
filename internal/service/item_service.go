package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/pkg/api"
)

// ItemService implements the Connect ItemService
type ItemService struct {
	catalog storage.Catalog
	logger  *slog.Logger
}

var _ api.ItemServiceHandler = (*ItemService)(nil)

// NewItemService creates a new ItemService reading from the given catalog.
func NewItemService(catalog storage.Catalog, logger *slog.Logger) *ItemService {
	return &ItemService{catalog: catalog, logger: logger}
}

// GetItem returns a single catalog item.
func (s *ItemService) GetItem(ctx context.Context, req *connect.Request[api.GetItemRequest]) (*connect.Response[api.GetItemResponse], error) {
	item, err := s.catalog.GetItem(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.GetItemResponse{Item: toAPIItem(*item)}), nil
}

// GetItemsByName returns every item with exactly the given name, or NotFound if there are none.
func (s *ItemService) GetItemsByName(ctx context.Context, req *connect.Request[api.GetItemsByNameRequest]) (*connect.Response[api.ItemsResponse], error) {
	items, err := s.catalog.FindItemsByName(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	if len(items) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no items named %q", req.Msg.Name))
	}
	return connect.NewResponse(&api.ItemsResponse{Items: itemList(items)}), nil
}

// ListItems returns the whole catalog.
func (s *ItemService) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ItemsResponse], error) {
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.ItemsResponse{Items: itemList(items)}), nil
}

func itemList(items []*models.Item) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = toAPIItem(*item)
	}
	return out
}
