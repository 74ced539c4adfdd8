package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
)

func TestQueryMetricsRecordsStatements(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	registry := prometheus.NewRegistry()
	metrics := NewQueryMetrics(registry)
	require.NoError(t, db.Use(metrics))

	uow := NewUnitOfWork(db, newTestLogger(t), newTestTime(t), fastRetry())
	repo := uow.GetCreditRepository(context.Background())
	id := uuid.New()

	mock.ExpectQuery(selectBalance).
		WillReturnRows(sqlmock.NewRows(balanceColumns).AddRow(id.String(), 5, 0, 0, fixedNow, fixedNow))
	mock.ExpectQuery(selectBalance).WillReturnError(errors.New("connection refused"))

	// Act
	_, err := repo.GetBalance(context.Background(), id)
	require.NoError(t, err)
	_, err = repo.GetBalance(context.Background(), id)
	require.Error(t, err)

	// Assert
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.errors.WithLabelValues("select", "credit_balances")))
}

func TestManagerWithExistingHandle(t *testing.T) {
	db, _ := newMockDB(t)
	manager := NewManagerWithDB(db, validConfig(), newTestLogger(t), newTestTime(t))

	assert.NoError(t, manager.HealthCheck(context.Background()))
	assert.NotNil(t, manager.CreateUnitOfWork())
	assert.NotNil(t, manager.TopUpLockRepository())
	assert.NotNil(t, manager.MigrationManager())
}

func TestManagerHealthCheckWithoutConnection(t *testing.T) {
	manager := NewManager(validConfig(), newTestLogger(t), newTestTime(t), nil)

	assert.Error(t, manager.HealthCheck(context.Background()))
}

func TestConnectionPoolMonitor(t *testing.T) {
	db, _ := newMockDB(t)
	monitor := NewConnectionPoolMonitor(db, newTestLogger(t))

	require.NoError(t, monitor.Start(time.Hour))
	monitor.Stop()
	monitor.Stop()

	assert.GreaterOrEqual(t, monitor.Last().OpenConnections, 0)
	assert.False(t, monitor.Saturated())
}

func TestConnectionPoolMonitorSaturation(t *testing.T) {
	// Arrange
	samples := []sql.DBStats{
		{MaxOpenConnections: 10, InUse: 9},
		{MaxOpenConnections: 10, InUse: 10},
		{MaxOpenConnections: 10, InUse: 2},
	}
	next := 0
	logger := coremocks.NewMockLogger(t)
	logger.On("Warn", "Database connection pool nearly exhausted", mock.Anything).Once()
	logger.On("Info", "Database connection pool recovered", mock.Anything).Once()

	monitor := newConnectionPoolMonitor(func() (sql.DBStats, error) {
		s := samples[next]
		next++
		return s, nil
	}, logger)

	// Act & Assert
	require.NoError(t, monitor.sample())
	assert.True(t, monitor.Saturated())
	require.NoError(t, monitor.sample())
	assert.True(t, monitor.Saturated())
	require.NoError(t, monitor.sample())
	assert.False(t, monitor.Saturated())
	assert.Equal(t, 2, monitor.Last().InUse)
}

func TestConnectionPoolMonitorStatsError(t *testing.T) {
	monitor := newConnectionPoolMonitor(func() (sql.DBStats, error) {
		return sql.DBStats{}, errors.New("closed")
	}, newTestLogger(t))

	assert.Error(t, monitor.Start(time.Hour))
}
