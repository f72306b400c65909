package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/middleware"
	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/internal/storage/memory"
	"github.com/mmynk/storefront/pkg/api"
)

const testSecret = "test-secret-key-for-storefront-tests"

// testClients bundles one client per service of a test server.
type testClients struct {
	users    api.UserServiceClient
	accounts api.AccountServiceClient
	items    api.ItemServiceClient
	carts    api.CartServiceClient
	orders   api.OrderServiceClient
	url      string
}

// setupTestServer creates a test server backed by an in-memory store. All
// services but UserService sit behind the real RequireAuth interceptor.
func setupTestServer(t *testing.T, opts ...shop.Option) (*testClients, *memory.Store, *auth.JWTManager) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store := memory.NewSeeded()

	authenticator, err := auth.NewPasswordAuthenticator(store, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	locks := shop.NewKeyedMutex()
	userSvc := NewUserService(authenticator, jwtManager, store, nil, logger)
	itemSvc := NewItemService(store, logger)
	cartSvc := NewCartService(shop.NewCartEngine(store, store, store, locks, opts...), logger)
	orderSvc := NewOrderService(shop.NewOrderEngine(store, store, store, locks, opts...), logger)

	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager, logger))

	mux := http.NewServeMux()
	mux.Handle(api.NewUserServiceHandler(userSvc))
	mux.Handle(api.NewAccountServiceHandler(userSvc, protected))
	mux.Handle(api.NewItemServiceHandler(itemSvc, protected))
	mux.Handle(api.NewCartServiceHandler(cartSvc, protected))
	mux.Handle(api.NewOrderServiceHandler(orderSvc, protected))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testClients{
		users:    api.NewUserServiceClient(http.DefaultClient, server.URL),
		accounts: api.NewAccountServiceClient(http.DefaultClient, server.URL),
		items:    api.NewItemServiceClient(http.DefaultClient, server.URL),
		carts:    api.NewCartServiceClient(http.DefaultClient, server.URL),
		orders:   api.NewOrderServiceClient(http.DefaultClient, server.URL),
		url:      server.URL,
	}, store, jwtManager
}

// signupAndLogin registers the user and returns a bearer token for it.
func signupAndLogin(t *testing.T, clients *testClients, username string) string {
	t.Helper()

	_, err := clients.users.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{
		Username:        username,
		Password:        "password123",
		ConfirmPassword: "password123",
	}))
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}

	resp, err := clients.users.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", username, err)
	}
	return resp.Msg.Token
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// expectCode fails the test unless err is a Connect error with the given code.
func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}
