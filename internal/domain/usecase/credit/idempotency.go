package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// IdempotencyHandler replays deductions that were retried with the same key
type IdempotencyHandler struct {
	uow persistence.UnitOfWork
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(uow persistence.UnitOfWork) *IdempotencyHandler {
	return &IdempotencyHandler{uow: uow}
}

// CheckIdempotency looks up the usage transaction recorded under the request's key.
// Returns the transaction, a boolean indicating if it was found, and any error
func (h *IdempotencyHandler) CheckIdempotency(
	ctx context.Context,
	req portuse.DeductRequest,
) (*entity.CreditTransaction, bool, error) {
	if req.IdempotencyKey == "" {
		return nil, false, nil
	}

	existing, err := h.lookup(ctx, req.BusinessID, req.IdempotencyKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing == nil {
		return nil, false, nil
	}

	// The same key must not be reused for a different deduction
	if existing.Type != entity.TransactionUsage || existing.Credits() != req.Amount {
		return nil, true, fmt.Errorf("%w: key %q was used for a deduction of %d credits",
			errs.ErrDuplicateTransaction, req.IdempotencyKey, existing.Credits())
	}

	return existing, true, nil
}

func (h *IdempotencyHandler) lookup(ctx context.Context, businessID uuid.UUID, key string) (*entity.CreditTransaction, error) {
	return h.uow.GetCreditTransactionRepository(ctx).GetByIdempotencyKey(ctx, businessID, key)
}
