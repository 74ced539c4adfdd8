package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// CreditTransactionRepository implements the append-only credit ledger using GORM
type CreditTransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCreditTransactionRepository creates a new CreditTransactionRepository instance
func NewCreditTransactionRepository(db *gorm.DB, logger coreport.Logger) *CreditTransactionRepository {
	return &CreditTransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func transactionToModel(tx *entity.CreditTransaction) model.CreditTransaction {
	return model.CreditTransaction{
		ID:               tx.ID,
		BusinessID:       tx.BusinessID,
		Amount:           tx.Amount,
		Type:             string(tx.Type),
		Description:      tx.Description,
		RelatedImageID:   tx.RelatedImageID,
		PaymentReference: tx.PaymentReference,
		IdempotencyKey:   tx.IdempotencyKey,
		BalanceAfter:     tx.BalanceAfter,
		CreatedAt:        tx.CreatedAt,
	}
}

func transactionToEntity(m *model.CreditTransaction) *entity.CreditTransaction {
	return &entity.CreditTransaction{
		ID:               m.ID,
		BusinessID:       m.BusinessID,
		Amount:           m.Amount,
		Type:             entity.TransactionType(m.Type),
		Description:      m.Description,
		RelatedImageID:   m.RelatedImageID,
		PaymentReference: m.PaymentReference,
		IdempotencyKey:   m.IdempotencyKey,
		BalanceAfter:     m.BalanceAfter,
		CreatedAt:        m.CreatedAt,
	}
}

// Create appends a ledger entry
func (r *CreditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	m := transactionToModel(tx)
	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate credit transaction", map[string]any{
				"transaction_id": tx.ID.String(),
				"business_id":    tx.BusinessID.String(),
			})
			return errs.ErrDuplicateTransaction
		}
		return storeUnavailable(r.logger, "creating credit transaction", result.Error, map[string]any{
			"transaction_id": tx.ID.String(),
			"business_id":    tx.BusinessID.String(),
		})
	}

	r.logger.Debug("Credit transaction recorded", map[string]any{
		"transaction_id": tx.ID.String(),
		"business_id":    tx.BusinessID.String(),
		"type":           string(tx.Type),
		"amount":         tx.Amount,
		"balance_after":  tx.BalanceAfter,
	})
	return nil
}

// ListByBusiness returns a page of the ledger, newest first
func (r *CreditTransactionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	var rows []model.CreditTransaction
	result := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if result.Error != nil {
		return nil, storeUnavailable(r.logger, "listing credit transactions", result.Error, map[string]any{
			"business_id": businessID.String(),
		})
	}

	txs := make([]*entity.CreditTransaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, transactionToEntity(&rows[i]))
	}
	return txs, nil
}

// GetByIdempotencyKey returns the entry recorded under key, or nil when there is none
func (r *CreditTransactionRepository) GetByIdempotencyKey(ctx context.Context, businessID uuid.UUID, key string) (*entity.CreditTransaction, error) {
	var m model.CreditTransaction
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND idempotency_key = ?", businessID, key).
		Take(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeUnavailable(r.logger, "looking up idempotency key", result.Error, map[string]any{
			"business_id":     businessID.String(),
			"idempotency_key": key,
		})
	}
	return transactionToEntity(&m), nil
}
