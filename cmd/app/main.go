package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mywallet/internal/config"
	"mywallet/internal/db"
	httpServer "mywallet/internal/http"
	"mywallet/internal/http/handlers"
	"mywallet/internal/logger"
	"mywallet/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()
	stores, err := db.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open stores", "error", err)
	}
	defer stores.Close()

	auth := service.NewAuthService(stores.Users, stores.Sessions, service.NewBcryptHasher(cfg.BcryptCost), cfg.DBTimeout)
	ledger := service.NewLedgerService(stores.Ledger, cfg.DBTimeout)

	r := httpServer.NewRouter(
		handlers.NewHandler(auth, ledger),
		handlers.NewHealthHandler(stores.Checks(), version),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.Driver, "sessions", cfg.SessionStore, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("listen failed", "error", err)
		return
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
