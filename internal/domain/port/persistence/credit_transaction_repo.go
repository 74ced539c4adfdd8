package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// CreditTransactionRepository stores the append-only credit ledger
type CreditTransactionRepository interface {
	// Create appends a ledger entry; entries are never updated or deleted
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If the idempotency key was already used
	// - ErrStoreUnavailable: If the database cannot be reached
	Create(ctx context.Context, tx *entity.CreditTransaction) error

	// ListByBusiness returns the ledger of a business, newest first
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error)

	// GetByIdempotencyKey finds the usage entry recorded for a retried deduction.
	// Returns (nil, nil) when no entry carries the key
	GetByIdempotencyKey(ctx context.Context, businessID uuid.UUID, key string) (*entity.CreditTransaction, error)
}

// AutoTopUpLogRepository stores the billing-operations audit log
type AutoTopUpLogRepository interface {
	// Create appends an auto-top-up attempt
	Create(ctx context.Context, log *entity.AutoTopUpLog) error

	// ListByBusiness returns the attempts of a business, newest first
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error)
}
