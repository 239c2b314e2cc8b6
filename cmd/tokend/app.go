package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ollyware/tokend/internal/db"
	"github.com/ollyware/tokend/internal/handlers"
	"github.com/ollyware/tokend/internal/handlers/middleware"
	"github.com/ollyware/tokend/internal/logger"
	"github.com/ollyware/tokend/internal/repository/sqlite"
	"github.com/ollyware/tokend/internal/service/license"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Initialize logger
	logger, err := logger.NewTextLogger(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Open the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error while opening db. Err: %w", err)
	}

	// Initialize repositories and services
	storage := sqlite.NewStorage(pool)
	licenseService := license.NewService(storage)

	metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	mux := handlers.NewRouter(licenseService, c.AdminKey, metrics, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
