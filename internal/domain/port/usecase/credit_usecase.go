package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// DeductRequest represents one credit-consuming operation
type DeductRequest struct {
	BusinessID     uuid.UUID
	Amount         int
	Description    string
	RelatedImageID string
	IdempotencyKey string
}

// DeductResult contains the outcome of a successful deduction
type DeductResult struct {
	Transaction      *entity.CreditTransaction
	CreditsRemaining int
	Replayed         bool         // true when an earlier deduction with the same key was returned
	TopUp            *TopUpResult // nil when the trigger was not evaluated
}

// GrantRequest adds credits outside the auto-top-up path
type GrantRequest struct {
	BusinessID       uuid.UUID
	Type             entity.TransactionType
	Amount           int
	Description      string
	PaymentReference string
}

// CreditUseCase defines the deduction service and credit ledger queries
type CreditUseCase interface {
	// Deduct consumes credits atomically, records a usage transaction and then
	// evaluates auto-top-up. Fails with InsufficientCreditsError without mutating
	Deduct(ctx context.Context, req DeductRequest) (*DeductResult, error)

	// CheckCredits verifies a balance covers amount before expensive work starts
	CheckCredits(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error)

	// GetBalance returns the current balance
	GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error)

	// ListTransactions returns the ledger newest first
	ListTransactions(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error)

	// GrantCredits records a purchase, bonus or refund and increments the balance
	GrantCredits(ctx context.Context, req GrantRequest) (*entity.CreditTransaction, error)
}
