package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	portmetrics "github.com/zazzles-app/credit-ledger/internal/domain/port/metrics"
	"github.com/zazzles-app/credit-ledger/internal/domain/usecase/business"
	"github.com/zazzles-app/credit-ledger/internal/domain/usecase/credit"
	"github.com/zazzles-app/credit-ledger/internal/domain/usecase/topup"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/logger"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/metrics"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/payment"
	timeadapter "github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/time"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/config"
)

// app holds the wired components shared by the commands
type app struct {
	cfg       *config.Config
	logger    coreport.Logger
	time      coreport.TimeProvider
	dbManager *database.Manager

	recorder       portmetrics.Recorder
	observer       middleware.RequestObserver
	metricsHandler http.Handler

	businesses *business.BusinessUseCase
	credits    *credit.Service
	topUp      *topup.Trigger
}

// newApp loads and validates configuration, then builds the logger and metrics
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if warnings := productionWarnings(cfg); len(warnings) > 0 {
		appLogger.Warn("Potential security issues in production configuration", map[string]any{
			"warnings": warnings,
		})
	}

	a := &app{
		cfg:      cfg,
		logger:   appLogger,
		time:     timeadapter.NewRealTimeProvider(),
		recorder: metrics.NoopRecorder{},
	}

	var registerer prometheus.Registerer
	if cfg.Metrics.Enabled {
		recorder := metrics.NewPrometheusRecorder()
		a.recorder = recorder
		a.observer = recorder
		a.metricsHandler = recorder.Handler()
		registerer = recorder.Registerer()
	}

	a.dbManager = database.NewManager(database.FromAppConfig(cfg), appLogger, a.time, registerer)
	return a, nil
}

// connect opens the database and applies the migrations
func (a *app) connect(ctx context.Context) error {
	if _, err := a.dbManager.Connect(); err != nil {
		return err
	}
	if err := a.dbManager.MigrationManager().MigrateAll(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// wire builds the use cases on top of an open connection
func (a *app) wire() {
	uow := a.dbManager.CreateUnitOfWork()

	if a.cfg.Stripe.SecretKey == "" {
		a.logger.Warn("Stripe secret key not set, auto-top-up charges will fail", nil)
	}
	gateway := payment.NewStripeGateway(a.cfg.Stripe.SecretKey, a.cfg.Stripe.Currency, a.logger)

	a.topUp = topup.NewTrigger(
		uow,
		a.dbManager.TopUpLockRepository(),
		gateway,
		a.recorder,
		a.time,
		a.logger,
		topup.Config{
			LockTTL:       a.cfg.Credits.TopUpLockTTL,
			ChargeTimeout: a.cfg.Stripe.ChargeTimeout,
			ListLimit:     a.cfg.Credits.ListLimit,
		},
	)
	a.credits = credit.NewCreditService(uow, a.topUp, a.recorder, a.time, a.logger, a.cfg.Credits.ListLimit)
	a.businesses = business.NewBusinessUseCase(uow, a.time, a.logger, a.cfg.Credits.TrialGrant)
}

// close releases the database and flushes the logger
func (a *app) close() {
	if err := a.dbManager.Close(); err != nil {
		a.logger.Error("Failed to close database", map[string]any{"error": err.Error()})
	}
	_ = a.logger.Flush()
}
