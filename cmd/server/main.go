package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/storefront/internal/auth"
	"github.com/mmynk/storefront/internal/config"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/server"
	"github.com/mmynk/storefront/internal/shop"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/internal/storage/cache"
	"github.com/mmynk/storefront/internal/storage/memory"
	"github.com/mmynk/storefront/internal/storage/sqlite"
	"github.com/mmynk/storefront/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.Storage.Driver, "database", cfg.Storage.DBPath)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		logger.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	authenticator, err := auth.NewPasswordAuthenticator(store, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := server.NewHandler(server.Config{
		Store:         store,
		Catalog:       cache.NewCatalog(store),
		Authenticator: authenticator,
		JWTManager:    auth.NewJWTManager(secret, cfg.Auth.JWTTTL.Duration()),
		Metrics:       metrics.New(reg),
		Gatherer:      reg,
		Logger:        logger,
		ShopOptions:   []shop.Option{shop.WithClearCartOnSubmit(cfg.Shop.ClearCartOnSubmit)},
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Driver == config.DriverMemory {
		return memory.NewSeeded(), nil
	}
	return sqlite.New(cfg.DBPath)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
