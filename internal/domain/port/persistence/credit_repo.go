package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// CreditRepository owns the credit balance row of each business.
// Every mutation is a single atomic statement against the store
type CreditRepository interface {
	// GetBalance reads the current balance
	//
	// Possible errors:
	// - ErrBusinessNotFound: If the business has no balance row
	// - ErrStoreUnavailable: If the database cannot be reached
	GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error)

	// CreateBalance inserts the initial balance row of a business
	CreateBalance(ctx context.Context, balance *entity.CreditBalance) error

	// Deduct decrements the balance by amount only if it would stay non-negative,
	// and returns the balance after the update
	//
	// Possible errors:
	// - ErrInsufficientCredits: If the balance is lower than amount (nothing changed)
	// - ErrBusinessNotFound: If the business has no balance row
	// - ErrStoreUnavailable: If the database cannot be reached
	Deduct(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error)

	// AddPurchased increments credits_remaining and credits_purchased
	AddPurchased(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error)

	// AddBonus increments credits_remaining only
	AddBonus(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error)
}
