package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
)

func TestNewUsageTransaction(t *testing.T) {
	fixedTime := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t).FixedNow(fixedTime)
	businessID := uuid.New()

	t.Run("Usage amount is negative", func(t *testing.T) {
		tx, err := NewUsageTransaction(businessID, 2, 8, CreditTransactionParams{
			Description:    "AI image enhancement",
			RelatedImageID: "img_1",
			IdempotencyKey: "req-1",
		}, mockTime)

		require.NoError(t, err)
		assert.Equal(t, -2, tx.Amount)
		assert.Equal(t, 2, tx.Credits())
		assert.Equal(t, TransactionUsage, tx.Type)
		assert.Equal(t, 8, tx.BalanceAfter)
		require.NotNil(t, tx.RelatedImageID)
		assert.Equal(t, "img_1", *tx.RelatedImageID)
		require.NotNil(t, tx.IdempotencyKey)
		assert.Nil(t, tx.PaymentReference)
		assert.Equal(t, fixedTime, tx.CreatedAt)
		assert.NotEqual(t, uuid.Nil, tx.ID)
	})

	t.Run("Non-positive credits are rejected", func(t *testing.T) {
		for _, credits := range []int{0, -3} {
			_, err := NewUsageTransaction(businessID, credits, 5, CreditTransactionParams{}, mockTime)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		}
	})

	t.Run("Negative balance after is rejected", func(t *testing.T) {
		_, err := NewUsageTransaction(businessID, 1, -1, CreditTransactionParams{}, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestNewCreditingTransaction(t *testing.T) {
	mockTime := coremocks.NewMockTimeProvider(t).FixedNow(time.Now())
	businessID := uuid.New()

	for _, txType := range []TransactionType{TransactionPurchase, TransactionBonus, TransactionTrial, TransactionRefund} {
		t.Run(string(txType), func(t *testing.T) {
			tx, err := NewCreditingTransaction(businessID, txType, 9, 12, CreditTransactionParams{PaymentReference: "pi_1"}, mockTime)

			require.NoError(t, err)
			assert.Equal(t, 9, tx.Amount)
			assert.Equal(t, txType, tx.Type)
		})
	}

	t.Run("Usage cannot add credits", func(t *testing.T) {
		_, err := NewCreditingTransaction(businessID, TransactionUsage, 9, 12, CreditTransactionParams{}, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := NewCreditingTransaction(businessID, TransactionType("gift"), 9, 12, CreditTransactionParams{}, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)
	})
}

func TestParseTransactionType(t *testing.T) {
	txType, err := ParseTransactionType(" Bonus ")
	require.NoError(t, err)
	assert.Equal(t, TransactionBonus, txType)

	_, err = ParseTransactionType("auto_topup")
	assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)
}
