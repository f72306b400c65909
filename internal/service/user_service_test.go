package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/pkg/api"
)

func TestCreateUser(t *testing.T) {
	clients, store, _ := setupTestServer(t)

	resp, err := clients.users.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{
		Username:        "jackie",
		Password:        "password123",
		ConfirmPassword: "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "jackie", resp.Msg.User.Username)
	assert.NotEmpty(t, resp.Msg.User.ID)

	stored, err := store.GetUserByUsername(context.Background(), "jackie")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"), "expected a bcrypt hash, got %q", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword("password123", stored.PasswordHash))

	cart, err := store.GetCartByUserID(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCreateUser_Validation(t *testing.T) {
	clients, _, _ := setupTestServer(t)

	tests := []struct {
		name string
		req  *api.CreateUserRequest
	}{
		{"empty username", &api.CreateUserRequest{Username: "", Password: "password123", ConfirmPassword: "password123"}},
		{"short password", &api.CreateUserRequest{Username: "anne", Password: "short", ConfirmPassword: "short"}},
		{"mismatched confirmation", &api.CreateUserRequest{Username: "anne", Password: "password123", ConfirmPassword: "password124"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clients.users.CreateUser(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	clients, _, _ := setupTestServer(t)
	signupAndLogin(t, clients, "jackie")

	_, err := clients.users.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{
		Username:        "jackie",
		Password:        "different123",
		ConfirmPassword: "different123",
	}))
	expectCode(t, err, connect.CodeAlreadyExists)

	// The original credentials still work.
	_, err = clients.users.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Username: "jackie",
		Password: "password123",
	}))
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	clients, _, jwtManager := setupTestServer(t)
	signupAndLogin(t, clients, "jackie")

	resp, err := clients.users.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Username: "jackie",
		Password: "password123",
	}))
	require.NoError(t, err)

	header := resp.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "), "unexpected Authorization header %q", header)
	token := strings.TrimPrefix(header, "Bearer ")
	assert.Equal(t, resp.Msg.Token, token)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := jwtManager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "jackie", claims.Username())
}

func TestLogin_Failures(t *testing.T) {
	clients, _, _ := setupTestServer(t)
	signupAndLogin(t, clients, "jackie")

	_, wrongPassword := clients.users.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Username: "jackie",
		Password: "wrong-password",
	}))
	_, unknownUser := clients.users.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Username: "jock",
		Password: "password123",
	}))

	expectCode(t, wrongPassword, connect.CodeUnauthenticated)
	expectCode(t, unknownUser, connect.CodeUnauthenticated)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestProtectedProcedures_RequireToken(t *testing.T) {
	clients, _, _ := setupTestServer(t)
	token := signupAndLogin(t, clients, "jackie")

	expired := auth.NewJWTManager(testSecret, time.Hour, auth.WithClock(fixedClock(time.Now().Add(-2*time.Hour))))
	expiredToken, err := expired.Generate(&models.User{ID: "id", Username: "jackie"})
	require.NoError(t, err)

	forged := auth.NewJWTManager("some-other-secret", time.Hour)
	forgedToken, err := forged.Generate(&models.User{ID: "id", Username: "jackie"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expiredToken},
		{"forged signature", "Bearer " + forgedToken},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.ListItemsRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := clients.items.ListItems(context.Background(), req)
			expectCode(t, err, connect.CodeUnauthenticated)
			if err != nil {
				messages = append(messages, err.Error())
			}
		})
	}

	require.Len(t, messages, len(tests))
	for _, msg := range messages[1:] {
		assert.Equal(t, messages[0], msg, "token failures must be indistinguishable")
	}
}

func TestUnauthenticated_HTTPStatus(t *testing.T) {
	clients, _, _ := setupTestServer(t)

	req, err := http.NewRequest(http.MethodPost, clients.url+api.CartServiceAddToCartProcedure,
		strings.NewReader(`{"username":"jackie","item_id":1,"quantity":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_RawHTTP(t *testing.T) {
	clients, _, _ := setupTestServer(t)
	signupAndLogin(t, clients, "jackie")

	req, err := http.NewRequest(http.MethodPost, clients.url+api.UserServiceLoginProcedure,
		strings.NewReader(`{"username":"jackie","password":"password123"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Authorization"), "Bearer "))
}

func TestAccountLookups(t *testing.T) {
	clients, _, _ := setupTestServer(t)
	token := signupAndLogin(t, clients, "jackie")

	byName, err := clients.accounts.GetUserByUsername(context.Background(),
		authed(token, &api.GetUserByUsernameRequest{Username: "jackie"}))
	require.NoError(t, err)
	assert.Equal(t, "jackie", byName.Msg.User.Username)

	byID, err := clients.accounts.GetUserByID(context.Background(),
		authed(token, &api.GetUserByIDRequest{ID: byName.Msg.User.ID}))
	require.NoError(t, err)
	assert.Equal(t, "jackie", byID.Msg.User.Username)

	_, err = clients.accounts.GetUserByUsername(context.Background(),
		authed(token, &api.GetUserByUsernameRequest{Username: "jock"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = clients.accounts.GetUserByID(context.Background(),
		authed(token, &api.GetUserByIDRequest{ID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}
