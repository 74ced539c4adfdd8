package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
)

var fixedNow = time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mockDb.Close()
	})

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newTestLogger(t *testing.T) *coremocks.MockLogger {
	return coremocks.NewMockLogger(t).AllowAll()
}

func newTestTime(t *testing.T) *coremocks.MockTimeProvider {
	return coremocks.NewMockTimeProvider(t).FixedNow(fixedNow)
}

var balanceColumns = []string{
	"business_id", "credits_remaining", "credits_used", "credits_purchased", "created_at", "updated_at",
}
