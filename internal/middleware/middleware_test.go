package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/pkg/api"
)

// stubUsers answers Login and fails CreateUser.
type stubUsers struct {
	seen context.Context
}

func (s *stubUsers) CreateUser(ctx context.Context, _ *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("username is required"))
}

func (s *stubUsers) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.seen = ctx
	return connect.NewResponse(&api.LoginResponse{User: api.User{Username: GetUsername(ctx)}}), nil
}

func serve(t *testing.T, svc api.UserServiceHandler, interceptors ...connect.Interceptor) api.UserServiceClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle(api.NewUserServiceHandler(svc, connect.WithInterceptors(interceptors...)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return api.NewUserServiceClient(http.DefaultClient, server.URL)
}

func login(token string) *connect.Request[api.LoginRequest] {
	req := connect.NewRequest(&api.LoginRequest{Username: "jackie"})
	if token != "" {
		req.Header().Set("Authorization", token)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-1", Username: "jackie"})
	require.NoError(t, err)

	svc := &stubUsers{}
	client := serve(t, svc, RequireAuth(jwtManager, nil))

	t.Run("Valid token sets the principal", func(t *testing.T) {
		resp, err := client.Login(context.Background(), login("Bearer "+token))
		require.NoError(t, err)
		assert.Equal(t, "jackie", resp.Msg.User.Username)
		assert.Equal(t, "u-1", GetUserID(svc.seen))
	})

	expired, err := auth.NewJWTManager("middleware-secret", time.Hour,
		auth.WithClock(fixedClock(time.Now().Add(-2*time.Hour)))).Generate(&models.User{ID: "u-1", Username: "jackie"})
	require.NoError(t, err)

	t.Run("Expired token is rejected", func(t *testing.T) {
		_, err := client.Login(context.Background(), login("Bearer "+expired))
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		var connectErr *connect.Error
		require.True(t, errors.As(err, &connectErr))
		assert.Equal(t, auth.ErrInvalidToken.Error(), connectErr.Message())
	})

	t.Run("Every failure looks the same", func(t *testing.T) {
		for _, header := range []string{"", "Basic " + token, "Bearer garbage", "Bearer " + token + "x", "Bearer " + expired} {
			_, err := client.Login(context.Background(), login(header))
			require.Error(t, err, header)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), header)

			var connectErr *connect.Error
			require.True(t, errors.As(err, &connectErr))
			assert.Equal(t, auth.ErrInvalidToken.Error(), connectErr.Message())
		}
	})
}

func TestRequireAuth_LogsThroughInjectedLogger(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := serve(t, &stubUsers{}, RequireAuth(jwtManager, logger))

	_, err := client.Login(context.Background(), login("Bearer garbage"))
	require.Error(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "Token rejected", record["msg"])
	assert.Equal(t, api.UserServiceLoginProcedure, record["procedure"])
	assert.NotContains(t, buf.String(), "garbage")
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUsername(ctx))
	assert.Empty(t, GetUserID(ctx))

	ctx = WithPrincipal(ctx, "jackie", "u-1")
	assert.Equal(t, "jackie", GetUsername(ctx))
	assert.Equal(t, "u-1", GetUserID(ctx))
}

func TestLoggingInterceptor(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-1", Username: "jackie"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	client := serve(t, &stubUsers{}, LoggingInterceptor(logger), RequireAuth(jwtManager, logger))

	_, err = client.Login(context.Background(), login("Bearer "+token))
	require.NoError(t, err)
	create := connect.NewRequest(&api.CreateUserRequest{})
	create.Header().Set("Authorization", "Bearer "+token)
	_, err = client.CreateUser(context.Background(), create)
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var ok, failed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failed))

	assert.Equal(t, "RPC ok", ok["msg"])
	assert.Equal(t, api.UserServiceLoginProcedure, ok["procedure"])
	assert.Equal(t, "jackie", ok["username"], "principal set by RequireAuth is logged")

	assert.Equal(t, "WARN", failed["level"])
	assert.Equal(t, "invalid_argument", failed["code"])
	assert.NotContains(t, buf.String(), token)
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := serve(t, &stubUsers{}, MetricsInterceptor(metrics.New(reg)))

	_, err := client.Login(context.Background(), login(""))
	require.NoError(t, err)
	_, err = client.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{}))
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "storefront_rpc_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			counts[labels["procedure"]+" "+labels["code"]] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts[api.UserServiceLoginProcedure+" ok"])
	assert.Equal(t, 1.0, counts[api.UserServiceCreateUserProcedure+" invalid_argument"])
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}

// recordingTracer remembers the spans it starts.
type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

type recordingSpan struct {
	noop.Span
	name  string
	errs  []error
	code  codes.Code
	ended bool
}

func (t *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &recordingSpan{name: name}
	t.spans = append(t.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)            { s.code = code }
func (s *recordingSpan) End(...trace.SpanEndOption)                     { s.ended = true }

func TestTracingInterceptor(t *testing.T) {
	tracer := &recordingTracer{}
	client := serve(t, &stubUsers{}, TracingInterceptor(tracer))

	_, err := client.Login(context.Background(), login(""))
	require.NoError(t, err)
	_, err = client.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{}))
	require.Error(t, err)

	require.Len(t, tracer.spans, 2)

	assert.Equal(t, api.UserServiceLoginProcedure, tracer.spans[0].name)
	assert.True(t, tracer.spans[0].ended)
	assert.Empty(t, tracer.spans[0].errs)
	assert.Equal(t, codes.Unset, tracer.spans[0].code)

	assert.Equal(t, api.UserServiceCreateUserProcedure, tracer.spans[1].name)
	assert.True(t, tracer.spans[1].ended)
	assert.Len(t, tracer.spans[1].errs, 1)
	assert.Equal(t, codes.Error, tracer.spans[1].code)
}
