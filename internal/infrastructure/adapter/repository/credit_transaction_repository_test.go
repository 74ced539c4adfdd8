package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

var transactionColumns = []string{
	"id", "business_id", "amount", "type", "description", "related_image_id",
	"payment_reference", "idempotency_key", "balance_after", "created_at",
}

func usageTransaction(businessID uuid.UUID) *entity.CreditTransaction {
	key := "img-42"
	return &entity.CreditTransaction{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Amount:         -1,
		Type:           entity.TransactionUsage,
		Description:    "AI image enhancement",
		IdempotencyKey: &key,
		BalanceAfter:   29,
		CreatedAt:      fixedNow,
	}
}

func TestCreditTransactionRepositoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends entry", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditTransactionRepository(db, newTestLogger(t))

		mock.ExpectExec(`INSERT INTO "credit_transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, usageTransaction(uuid.New())))
	})

	t.Run("Unique violation is a duplicate transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditTransactionRepository(db, newTestLogger(t))

		mock.ExpectExec(`INSERT INTO "credit_transactions"`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(ctx, usageTransaction(uuid.New()))

		assert.ErrorIs(t, err, errs.ErrDuplicateTransaction)
	})
}

func TestCreditTransactionRepositoryQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("ListByBusiness newest first", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditTransactionRepository(db, newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credit_transactions" WHERE business_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
			WithArgs(id, 20).
			WillReturnRows(sqlmock.NewRows(transactionColumns).
				AddRow(uuid.NewString(), id.String(), 9, "purchase", "Auto top-up", nil, "pi_1", nil, 12, fixedNow).
				AddRow(uuid.NewString(), id.String(), -1, "usage", "AI image enhancement", "img-1", nil, nil, 3, fixedNow.Add(-1)))

		txs, err := repo.ListByBusiness(ctx, id, 20, 0)

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, entity.TransactionPurchase, txs[0].Type)
		assert.Equal(t, "pi_1", *txs[0].PaymentReference)
		assert.Equal(t, -1, txs[1].Amount)
		assert.Nil(t, txs[1].PaymentReference)
	})

	t.Run("GetByIdempotencyKey miss", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCreditTransactionRepository(db, newTestLogger(t))
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credit_transactions" WHERE business_id = \$1 AND idempotency_key = \$2`).
			WithArgs(id, "img-42", 1).
			WillReturnRows(sqlmock.NewRows(transactionColumns))

		tx, err := repo.GetByIdempotencyKey(ctx, id, "img-42")

		assert.NoError(t, err)
		assert.Nil(t, tx)
	})
}
