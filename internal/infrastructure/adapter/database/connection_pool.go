package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

const poolSaturationRatio = 0.8

// ConnectionPoolMonitor watches pool usage. Deductions hold a connection for the
// whole unit of work, so a saturated pool shows up as queued API requests; the
// monitor warns once when usage crosses the ratio and again when it recovers
type ConnectionPoolMonitor struct {
	stats  func() (sql.DBStats, error)
	logger coreport.Logger

	mu        sync.Mutex
	last      sql.DBStats
	saturated bool

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewConnectionPoolMonitor creates a monitor for the pool behind db
func NewConnectionPoolMonitor(db *gorm.DB, logger coreport.Logger) *ConnectionPoolMonitor {
	return newConnectionPoolMonitor(func() (sql.DBStats, error) {
		sqlDB, err := db.DB()
		if err != nil {
			return sql.DBStats{}, fmt.Errorf("failed to get database connection: %w", err)
		}
		return sqlDB.Stats(), nil
	}, logger)
}

func newConnectionPoolMonitor(stats func() (sql.DBStats, error), logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		stats:    stats,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start samples the pool once and then every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.sample(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.sample(); err != nil {
					m.logger.Error("Failed to sample connection pool", map[string]any{"error": err.Error()})
				}
			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop ends sampling; safe to call more than once
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// Last returns the most recent sample
func (m *ConnectionPoolMonitor) Last() sql.DBStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Saturated reports whether the last sample was above the saturation ratio
func (m *ConnectionPoolMonitor) Saturated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saturated
}

func (m *ConnectionPoolMonitor) sample() error {
	stats, err := m.stats()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.last = stats
	saturated := stats.MaxOpenConnections > 0 &&
		float64(stats.InUse) > float64(stats.MaxOpenConnections)*poolSaturationRatio

	fields := map[string]any{
		"in_use":     stats.InUse,
		"max_open":   stats.MaxOpenConnections,
		"idle":       stats.Idle,
		"wait_count": stats.WaitCount,
		"wait_time":  stats.WaitDuration.String(),
	}
	switch {
	case saturated && !m.saturated:
		m.logger.Warn("Database connection pool nearly exhausted", fields)
	case !saturated && m.saturated:
		m.logger.Info("Database connection pool recovered", fields)
	}
	m.saturated = saturated

	return nil
}

// Ping verifies that db answers within ctx
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
