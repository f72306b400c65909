package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	UserServiceName    = "storefront.v1.UserService"
	AccountServiceName = "storefront.v1.AccountService"
	ItemServiceName    = "storefront.v1.ItemService"
	CartServiceName    = "storefront.v1.CartService"
	OrderServiceName   = "storefront.v1.OrderService"
)

// Fully-qualified procedure names. Each is also the HTTP path of the procedure.
const (
	UserServiceCreateUserProcedure           = "/storefront.v1.UserService/CreateUser"
	UserServiceLoginProcedure                = "/storefront.v1.UserService/Login"
	AccountServiceGetUserByUsernameProcedure = "/storefront.v1.AccountService/GetUserByUsername"
	AccountServiceGetUserByIDProcedure       = "/storefront.v1.AccountService/GetUserByID"
	ItemServiceGetItemProcedure              = "/storefront.v1.ItemService/GetItem"
	ItemServiceGetItemsByNameProcedure       = "/storefront.v1.ItemService/GetItemsByName"
	ItemServiceListItemsProcedure            = "/storefront.v1.ItemService/ListItems"
	CartServiceAddToCartProcedure            = "/storefront.v1.CartService/AddToCart"
	CartServiceRemoveFromCartProcedure       = "/storefront.v1.CartService/RemoveFromCart"
	OrderServiceSubmitProcedure              = "/storefront.v1.OrderService/Submit"
	OrderServiceHistoryProcedure             = "/storefront.v1.OrderService/History"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append(append([]connect.HandlerOption{}, opts...), connect.WithCodec(codec{}))
}

func readOnlyHandlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append(handlerOptions(opts), connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(codec{})}, opts...)
}

func readOnlyClientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append(clientOptions(opts), connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}

// route dispatches the procedures of one service.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// UserService: public signup and login.

type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + UserServiceName + "/", route(map[string]http.Handler{
		UserServiceCreateUserProcedure: connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...),
		UserServiceLoginProcedure:      connect.NewUnaryHandler(UserServiceLoginProcedure, svc.Login, opts...),
	})
}

type UserServiceClient interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// NewUserServiceClient constructs a client for the storefront.v1.UserService service.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &userServiceClient{
		createUser: connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		login:      connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+UserServiceLoginProcedure, opts...),
	}
}

type userServiceClient struct {
	createUser *connect.Client[CreateUserRequest, CreateUserResponse]
	login      *connect.Client[LoginRequest, LoginResponse]
}

func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *userServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// AccountService: user lookups.

type AccountServiceHandler interface {
	GetUserByUsername(context.Context, *connect.Request[GetUserByUsernameRequest]) (*connect.Response[GetUserResponse], error)
	GetUserByID(context.Context, *connect.Request[GetUserByIDRequest]) (*connect.Response[GetUserResponse], error)
}

func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = readOnlyHandlerOptions(opts)
	return "/" + AccountServiceName + "/", route(map[string]http.Handler{
		AccountServiceGetUserByUsernameProcedure: connect.NewUnaryHandler(AccountServiceGetUserByUsernameProcedure, svc.GetUserByUsername, opts...),
		AccountServiceGetUserByIDProcedure:       connect.NewUnaryHandler(AccountServiceGetUserByIDProcedure, svc.GetUserByID, opts...),
	})
}

type AccountServiceClient interface {
	GetUserByUsername(context.Context, *connect.Request[GetUserByUsernameRequest]) (*connect.Response[GetUserResponse], error)
	GetUserByID(context.Context, *connect.Request[GetUserByIDRequest]) (*connect.Response[GetUserResponse], error)
}

func NewAccountServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AccountServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = readOnlyClientOptions(opts)
	return &accountServiceClient{
		getUserByUsername: connect.NewClient[GetUserByUsernameRequest, GetUserResponse](httpClient, baseURL+AccountServiceGetUserByUsernameProcedure, opts...),
		getUserByID:       connect.NewClient[GetUserByIDRequest, GetUserResponse](httpClient, baseURL+AccountServiceGetUserByIDProcedure, opts...),
	}
}

type accountServiceClient struct {
	getUserByUsername *connect.Client[GetUserByUsernameRequest, GetUserResponse]
	getUserByID       *connect.Client[GetUserByIDRequest, GetUserResponse]
}

func (c *accountServiceClient) GetUserByUsername(ctx context.Context, req *connect.Request[GetUserByUsernameRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUserByUsername.CallUnary(ctx, req)
}

func (c *accountServiceClient) GetUserByID(ctx context.Context, req *connect.Request[GetUserByIDRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUserByID.CallUnary(ctx, req)
}

// ItemService: catalog reads.

type ItemServiceHandler interface {
	GetItem(context.Context, *connect.Request[GetItemRequest]) (*connect.Response[GetItemResponse], error)
	GetItemsByName(context.Context, *connect.Request[GetItemsByNameRequest]) (*connect.Response[ItemsResponse], error)
	ListItems(context.Context, *connect.Request[ListItemsRequest]) (*connect.Response[ItemsResponse], error)
}

func NewItemServiceHandler(svc ItemServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = readOnlyHandlerOptions(opts)
	return "/" + ItemServiceName + "/", route(map[string]http.Handler{
		ItemServiceGetItemProcedure:        connect.NewUnaryHandler(ItemServiceGetItemProcedure, svc.GetItem, opts...),
		ItemServiceGetItemsByNameProcedure: connect.NewUnaryHandler(ItemServiceGetItemsByNameProcedure, svc.GetItemsByName, opts...),
		ItemServiceListItemsProcedure:      connect.NewUnaryHandler(ItemServiceListItemsProcedure, svc.ListItems, opts...),
	})
}

type ItemServiceClient interface {
	GetItem(context.Context, *connect.Request[GetItemRequest]) (*connect.Response[GetItemResponse], error)
	GetItemsByName(context.Context, *connect.Request[GetItemsByNameRequest]) (*connect.Response[ItemsResponse], error)
	ListItems(context.Context, *connect.Request[ListItemsRequest]) (*connect.Response[ItemsResponse], error)
}

func NewItemServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ItemServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = readOnlyClientOptions(opts)
	return &itemServiceClient{
		getItem:        connect.NewClient[GetItemRequest, GetItemResponse](httpClient, baseURL+ItemServiceGetItemProcedure, opts...),
		getItemsByName: connect.NewClient[GetItemsByNameRequest, ItemsResponse](httpClient, baseURL+ItemServiceGetItemsByNameProcedure, opts...),
		listItems:      connect.NewClient[ListItemsRequest, ItemsResponse](httpClient, baseURL+ItemServiceListItemsProcedure, opts...),
	}
}

type itemServiceClient struct {
	getItem        *connect.Client[GetItemRequest, GetItemResponse]
	getItemsByName *connect.Client[GetItemsByNameRequest, ItemsResponse]
	listItems      *connect.Client[ListItemsRequest, ItemsResponse]
}

func (c *itemServiceClient) GetItem(ctx context.Context, req *connect.Request[GetItemRequest]) (*connect.Response[GetItemResponse], error) {
	return c.getItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) GetItemsByName(ctx context.Context, req *connect.Request[GetItemsByNameRequest]) (*connect.Response[ItemsResponse], error) {
	return c.getItemsByName.CallUnary(ctx, req)
}

func (c *itemServiceClient) ListItems(ctx context.Context, req *connect.Request[ListItemsRequest]) (*connect.Response[ItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

// CartService: cart mutations.

type CartServiceHandler interface {
	AddToCart(context.Context, *connect.Request[AddToCartRequest]) (*connect.Response[CartResponse], error)
	RemoveFromCart(context.Context, *connect.Request[RemoveFromCartRequest]) (*connect.Response[CartResponse], error)
}

func NewCartServiceHandler(svc CartServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + CartServiceName + "/", route(map[string]http.Handler{
		CartServiceAddToCartProcedure:      connect.NewUnaryHandler(CartServiceAddToCartProcedure, svc.AddToCart, opts...),
		CartServiceRemoveFromCartProcedure: connect.NewUnaryHandler(CartServiceRemoveFromCartProcedure, svc.RemoveFromCart, opts...),
	})
}

type CartServiceClient interface {
	AddToCart(context.Context, *connect.Request[AddToCartRequest]) (*connect.Response[CartResponse], error)
	RemoveFromCart(context.Context, *connect.Request[RemoveFromCartRequest]) (*connect.Response[CartResponse], error)
}

func NewCartServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CartServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &cartServiceClient{
		addToCart:      connect.NewClient[AddToCartRequest, CartResponse](httpClient, baseURL+CartServiceAddToCartProcedure, opts...),
		removeFromCart: connect.NewClient[RemoveFromCartRequest, CartResponse](httpClient, baseURL+CartServiceRemoveFromCartProcedure, opts...),
	}
}

type cartServiceClient struct {
	addToCart      *connect.Client[AddToCartRequest, CartResponse]
	removeFromCart *connect.Client[RemoveFromCartRequest, CartResponse]
}

func (c *cartServiceClient) AddToCart(ctx context.Context, req *connect.Request[AddToCartRequest]) (*connect.Response[CartResponse], error) {
	return c.addToCart.CallUnary(ctx, req)
}

func (c *cartServiceClient) RemoveFromCart(ctx context.Context, req *connect.Request[RemoveFromCartRequest]) (*connect.Response[CartResponse], error) {
	return c.removeFromCart.CallUnary(ctx, req)
}

// OrderService: submission and history.

type OrderServiceHandler interface {
	Submit(context.Context, *connect.Request[SubmitRequest]) (*connect.Response[SubmitResponse], error)
	History(context.Context, *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error)
}

func NewOrderServiceHandler(svc OrderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	submitOpts := handlerOptions(opts)
	historyOpts := readOnlyHandlerOptions(opts)
	return "/" + OrderServiceName + "/", route(map[string]http.Handler{
		OrderServiceSubmitProcedure:  connect.NewUnaryHandler(OrderServiceSubmitProcedure, svc.Submit, submitOpts...),
		OrderServiceHistoryProcedure: connect.NewUnaryHandler(OrderServiceHistoryProcedure, svc.History, historyOpts...),
	})
}

type OrderServiceClient interface {
	Submit(context.Context, *connect.Request[SubmitRequest]) (*connect.Response[SubmitResponse], error)
	History(context.Context, *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error)
}

func NewOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) OrderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &orderServiceClient{
		submit:  connect.NewClient[SubmitRequest, SubmitResponse](httpClient, baseURL+OrderServiceSubmitProcedure, clientOptions(opts)...),
		history: connect.NewClient[HistoryRequest, HistoryResponse](httpClient, baseURL+OrderServiceHistoryProcedure, readOnlyClientOptions(opts)...),
	}
}

type orderServiceClient struct {
	submit  *connect.Client[SubmitRequest, SubmitResponse]
	history *connect.Client[HistoryRequest, HistoryResponse]
}

func (c *orderServiceClient) Submit(ctx context.Context, req *connect.Request[SubmitRequest]) (*connect.Response[SubmitResponse], error) {
	return c.submit.CallUnary(ctx, req)
}

func (c *orderServiceClient) History(ctx context.Context, req *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error) {
	return c.history.CallUnary(ctx, req)
}
