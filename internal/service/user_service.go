package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/pkg/api"
)

// UserLookup reads users for the account procedures.
type UserLookup interface {
	auth.UserStorage
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// UserService implements the public UserService (signup, login) and the
// protected AccountService (user lookups).
type UserService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         UserLookup
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

var (
	_ api.UserServiceHandler    = (*UserService)(nil)
	_ api.AccountServiceHandler = (*UserService)(nil)
)

// NewUserService creates a new user service.
func NewUserService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users UserLookup, m *metrics.Metrics, logger *slog.Logger) *UserService {
	return &UserService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		metrics:       m,
		logger:        logger,
	}
}

// CreateUser registers a new account together with its empty cart.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	s.logger.Info("CreateUser request", "username", req.Msg.Username)

	user, err := s.authenticator.Register(ctx, req.Msg.Username, req.Msg.Password, req.Msg.ConfirmPassword)
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		s.metrics.AuthAttempt("signup", outcome(err))
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	s.metrics.AuthAttempt("signup", "ok")

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&api.CreateUserResponse{User: toAPIUser(user)}), nil
}

// Login verifies the credentials and issues a token. The token is returned in
// the Authorization response header and in the body.
func (s *UserService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		s.metrics.AuthAttempt("login", outcome(err))
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}
	s.metrics.AuthAttempt("login", "ok")

	resp := connect.NewResponse(&api.LoginResponse{
		Token: token,
		User:  toAPIUser(user),
	})
	resp.Header().Set("Authorization", "Bearer "+token)

	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return resp, nil
}

// GetUserByUsername returns the public fields of a user.
func (s *UserService) GetUserByUsername(ctx context.Context, req *connect.Request[api.GetUserByUsernameRequest]) (*connect.Response[api.GetUserResponse], error) {
	user, err := s.users.GetUserByUsername(ctx, req.Msg.Username)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// GetUserByID returns the public fields of a user.
func (s *UserService) GetUserByID(ctx context.Context, req *connect.Request[api.GetUserByIDRequest]) (*connect.Response[api.GetUserResponse], error) {
	user, err := s.users.GetUserByID(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, req.Spec().Procedure, err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// outcome is the metrics label of a failed signup or login.
func outcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrUsernameTaken):
		return "username_taken"
	case auth.IsValidationError(err):
		return "invalid_input"
	default:
		return "error"
	}
}
