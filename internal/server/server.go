// Package server assembles the storefront's HTTP handler: the Connect
// services behind their interceptor chains, plus metrics and health endpoints.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/middleware"
	"github.com/mmynk/storefront/internal/service"
	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/pkg/api"
)

// Config holds the collaborators of the HTTP handler.
type Config struct {
	Store         storage.Store
	Catalog       storage.Catalog // defaults to Store
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // serves /metrics when set
	Tracer   trace.Tracer
	Logger   *slog.Logger

	ShopOptions []shop.Option
}

// NewHandler builds the router. UserService is public; every other service
// requires a valid bearer token.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = cfg.Store
	}

	locks := shop.NewKeyedMutex()
	shopOpts := append([]shop.Option{shop.WithMetrics(cfg.Metrics), shop.WithLogger(logger)}, cfg.ShopOptions...)
	cartEngine := shop.NewCartEngine(cfg.Store, catalog, cfg.Store, locks, shopOpts...)
	orderEngine := shop.NewOrderEngine(cfg.Store, cfg.Store, cfg.Store, locks, shopOpts...)

	userSvc := service.NewUserService(cfg.Authenticator, cfg.JWTManager, cfg.Store, cfg.Metrics, logger)
	itemSvc := service.NewItemService(catalog, logger)
	cartSvc := service.NewCartService(cartEngine, logger)
	orderSvc := service.NewOrderService(orderEngine, logger)

	// Interceptors run in order: tracing, metrics and logging wrap the auth check.
	chain := []connect.Interceptor{
		middleware.TracingInterceptor(cfg.Tracer),
		middleware.MetricsInterceptor(cfg.Metrics),
		middleware.LoggingInterceptor(logger),
	}
	public := connect.WithInterceptors(chain...)
	protected := connect.WithInterceptors(append(chain, middleware.RequireAuth(cfg.JWTManager, logger))...)

	router := mux.NewRouter()
	mount := func(path string, handler http.Handler) {
		router.PathPrefix(path).Handler(handler)
	}
	mount(api.NewUserServiceHandler(userSvc, public))
	mount(api.NewAccountServiceHandler(userSvc, protected))
	mount(api.NewItemServiceHandler(itemSvc, protected))
	mount(api.NewCartServiceHandler(cartSvc, protected))
	mount(api.NewOrderServiceHandler(orderSvc, protected))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.Use(requestLogger(logger), cors)
	return router
}

// requestLogger logs all incoming requests
func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger.Debug("Request received",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(w, r)

			logger.Debug("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// cors adds CORS headers for browser access. Authorization is exposed so
// that browser clients can read the token issued by Login.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
