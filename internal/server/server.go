// Package server boots the HTTP API: configuration, connection pool,
// cache, middleware chain, routes, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cafepos/app/routes"
	"cafepos/config"
	"cafepos/pkg/cache"
	"cafepos/pkg/database"
	"cafepos/pkg/logger"
	"cafepos/pkg/metrics"
	"cafepos/pkg/middleware"
	"cafepos/pkg/reqid"
	"cafepos/pkg/router"
)

// Start runs the API server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the connection pool. The process refuses to start when
// the database is unreachable; an unreachable redis only disables the menu
// cache.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()

	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, menu list served from database", "error", err)
	}

	r := router.New()
	r.Use(reqid.Middleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))

	routes.RegisterAPI(r, database.DB)
	r.Get("/metrics", "metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cafepos listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
