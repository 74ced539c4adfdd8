package database

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/repository"
)

const (
	slowQueryThreshold   = 200 * time.Millisecond
	poolMonitorInterval  = 30 * time.Second
	dbStatsCollectorName = "zazzles"
)

// Manager owns the database handle and builds the persistence adapters on top of it
type Manager struct {
	config            *Config
	db                *gorm.DB
	logger            coreport.Logger
	timeProvider      coreport.TimeProvider
	connectionMonitor *ConnectionPoolMonitor
	registerer        prometheus.Registerer
}

// NewManager creates a new database manager. registerer may be nil to skip database metrics
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider, registerer prometheus.Registerer) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
		registerer:   registerer,
	}
}

// NewManagerWithDB wraps an already opened handle, as used by tests
func NewManagerWithDB(db *gorm.DB, config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	m := NewManager(config, logger, timeProvider, nil)
	m.db = db
	return m
}

// Connect establishes a database connection, retrying the configured number of times
func (m *Manager) Connect() (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"port":   m.config.Port,
		"name":   m.config.Database,
	})

	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	gormLogger := NewDatabaseLogger(m.logger, m.config.LogLevel, slowQueryThreshold)

	var err error
	var gormDB *gorm.DB
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      attempts,
				"delay":   m.config.RetryDelay.String(),
			})
			m.timeProvider.Sleep(coreport.Duration(m.config.RetryDelay))
		}

		gormDB, err = openPostgres(m.config, gormLogger, m.timeProvider.Now)
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	if m.registerer != nil {
		if err := m.registerMetrics(gormDB); err != nil {
			m.logger.Warn("Failed to register database metrics", map[string]any{"error": err.Error()})
		}
	}

	m.logger.Info("Successfully connected to database", map[string]any{
		"driver":         m.config.Driver,
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
		"isolation":      m.config.Isolation().String(),
	})

	m.db = gormDB
	m.connectionMonitor = NewConnectionPoolMonitor(gormDB, m.logger)
	if err := m.connectionMonitor.Start(poolMonitorInterval); err != nil {
		m.logger.Warn("Failed to start connection pool monitoring", map[string]any{"error": err.Error()})
	}

	return m.db, nil
}

func (m *Manager) registerMetrics(db *gorm.DB) error {
	if err := db.Use(NewQueryMetrics(m.registerer)); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return m.registerer.Register(collectors.NewDBStatsCollector(sqlDB, dbStatsCollectorName))
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
	}
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	return sqlDB.Close()
}

// HealthCheck pings the database within the configured query timeout
func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not connected")
	}
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()
	return Ping(ctx, m.db)
}

// WithTimeout returns a context with timeout for database operations
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.config.QueryTimeout)
}

// CreateUnitOfWork creates a new UnitOfWork instance
func (m *Manager) CreateUnitOfWork() persistence.UnitOfWork {
	options := DefaultUnitOfWorkOptions()
	options.Isolation = m.config.Isolation()
	return NewUnitOfWork(m.db, m.logger, m.timeProvider, options)
}

// TopUpLockRepository returns the lock repository. Locks are taken outside
// unit-of-work transactions so they are visible to concurrent requests at once
func (m *Manager) TopUpLockRepository() persistence.TopUpLockRepository {
	return repository.NewTopUpLockRepository(m.db, m.timeProvider, m.logger)
}

// MigrationManager returns a migration manager bound to the connection
func (m *Manager) MigrationManager() *migration.MigrationManager {
	return migration.NewMigrationManager(m.db, m.logger, m.timeProvider)
}
