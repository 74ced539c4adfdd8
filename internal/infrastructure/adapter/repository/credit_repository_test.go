package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

const (
	deductQuery      = `UPDATE credit_balances\s+SET credits_remaining = credits_remaining - \$1`
	addPurchaseQuery = `UPDATE credit_balances\s+SET credits_remaining = credits_remaining \+ \$1,\s+credits_purchased`
	addBonusQuery    = `UPDATE credit_balances\s+SET credits_remaining = credits_remaining \+ \$1,\s+updated_at`
	selectBalance    = `SELECT \* FROM "credit_balances" WHERE business_id = \$1`
)

func TestCreditRepositoryDeduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Conditional update succeeds", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(deductQuery).
			WithArgs(3, 3, sqlmock.AnyArg(), id, 3).
			WillReturnRows(sqlmock.NewRows(balanceColumns).
				AddRow(id.String(), 7, 3, 0, fixedNow, fixedNow))

		// Act
		balance, err := repo.Deduct(ctx, id, 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, id, balance.BusinessID)
		assert.Equal(t, 7, balance.CreditsRemaining)
		assert.Equal(t, 3, balance.CreditsUsed)
	})

	t.Run("Zero rows on an existing balance is insufficient credits", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(deductQuery).
			WithArgs(5, 5, sqlmock.AnyArg(), id, 5).
			WillReturnRows(sqlmock.NewRows(balanceColumns))
		mock.ExpectQuery(selectBalance).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(balanceColumns).
				AddRow(id.String(), 2, 28, 0, fixedNow, fixedNow))

		balance, err := repo.Deduct(ctx, id, 5)

		assert.Nil(t, balance)
		assert.ErrorIs(t, err, errs.ErrInsufficientCredits)
	})

	t.Run("Zero rows on a missing balance is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(deductQuery).WillReturnRows(sqlmock.NewRows(balanceColumns))
		mock.ExpectQuery(selectBalance).WillReturnRows(sqlmock.NewRows(balanceColumns))

		_, err := repo.Deduct(ctx, id, 1)

		assert.ErrorIs(t, err, errs.ErrBusinessNotFound)
	})

	t.Run("Check violation is insufficient credits", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))

		mock.ExpectQuery(deductQuery).WillReturnError(&pgconn.PgError{Code: "23514", Message: "violates check constraint"})

		_, err := repo.Deduct(ctx, uuid.New(), 1)

		assert.ErrorIs(t, err, errs.ErrInsufficientCredits)
	})

	t.Run("Connection failure is store unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))

		mock.ExpectQuery(deductQuery).WillReturnError(errors.New("dial tcp: connection refused"))

		_, err := repo.Deduct(ctx, uuid.New(), 1)

		assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Non-positive amount never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))

		_, err := repo.Deduct(ctx, uuid.New(), 0)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestCreditRepositoryIncrements(t *testing.T) {
	ctx := context.Background()

	t.Run("AddPurchased", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(addPurchaseQuery).
			WithArgs(9, 9, sqlmock.AnyArg(), id).
			WillReturnRows(sqlmock.NewRows(balanceColumns).
				AddRow(id.String(), 12, 27, 9, fixedNow, fixedNow))

		balance, err := repo.AddPurchased(ctx, id, 9)

		require.NoError(t, err)
		assert.Equal(t, 12, balance.CreditsRemaining)
		assert.Equal(t, 9, balance.CreditsPurchased)
	})

	t.Run("AddBonus on unknown business", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(addBonusQuery).
			WithArgs(5, sqlmock.AnyArg(), id).
			WillReturnRows(sqlmock.NewRows(balanceColumns))

		_, err := repo.AddBonus(ctx, id, 5)

		assert.ErrorIs(t, err, errs.ErrBusinessNotFound)
	})
}

func TestCreditRepositoryBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("GetBalance", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(selectBalance).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(balanceColumns).
				AddRow(id.String(), 30, 0, 0, fixedNow, fixedNow))

		balance, err := repo.GetBalance(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, 30, balance.CreditsRemaining)
	})

	t.Run("CreateBalance", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditRepository(db, newTestTime(t), newTestLogger(t))
		balance := &entity.CreditBalance{BusinessID: uuid.New(), CreditsRemaining: 30, CreatedAt: fixedNow, UpdatedAt: fixedNow}

		mock.ExpectExec(`INSERT INTO "credit_balances"`).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.CreateBalance(ctx, balance))
	})
}
