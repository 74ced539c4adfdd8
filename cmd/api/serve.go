package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/routes"
)

const lockCleanupInterval = time.Minute

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the credit ledger HTTP API",
		Long: `Run the credit ledger HTTP API.

Loads configs/<ZZ_ENV>.yaml, connects to PostgreSQL, applies migrations and
serves the business, credit and auto-top-up endpoints until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := a.connect(ctx); err != nil {
		return err
	}
	a.wire()

	router := gin.New()
	routes.SetupMiddlewares(router, a.logger, a.observer)
	routes.SetupRoutes(router, routes.Handlers{
		Business: handler.NewBusinessHandler(a.businesses, a.logger),
		Credit:   handler.NewCreditHandler(a.credits, a.logger),
		TopUp:    handler.NewTopUpHandler(a.topUp, a.logger),
		Health:   handler.NewHealthHandler(a.dbManager, a.logger),
	}, a.cfg.Metrics.Path, a.metricsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupExpiredLocks(ctx, a)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  a.cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// In-flight deductions finish before the database closes
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
		return err
	}

	a.logger.Info("Server exited gracefully", nil)
	return nil
}

// cleanupExpiredLocks removes top-up locks left behind by crashed processes
func cleanupExpiredLocks(ctx context.Context, a *app) {
	locks := a.dbManager.TopUpLockRepository()
	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := locks.CleanupExpiredLocks(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					a.logger.Warn("Failed to clean up expired top-up locks", map[string]any{"error": err.Error()})
				}
				continue
			}
			if removed > 0 {
				a.logger.Info("Expired top-up locks removed", map[string]any{"count": removed})
			}
		}
	}
}
