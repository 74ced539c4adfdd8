package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// BusinessRepository defines methods to interact with business data
type BusinessRepository interface {
	// GetByID retrieves a business by ID
	//
	// Possible errors:
	// - ErrBusinessNotFound: If the business doesn't exist
	// - ErrStoreUnavailable: If the database cannot be reached
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)

	// Create stores a new business
	//
	// Possible errors:
	// - ErrDuplicateBusiness: If a business with the same ID already exists
	// - ErrStoreUnavailable: If the database cannot be reached
	Create(ctx context.Context, business *entity.Business) error

	// UpdateAutoTopUpSettings persists the auto-top-up configuration of the business
	//
	// Possible errors:
	// - ErrBusinessNotFound: If the business doesn't exist
	// - ErrStoreUnavailable: If the database cannot be reached
	UpdateAutoTopUpSettings(ctx context.Context, business *entity.Business) error

	// AttachPaymentMethod persists the gateway customer and payment method references
	//
	// Possible errors:
	// - ErrBusinessNotFound: If the business doesn't exist
	// - ErrStoreUnavailable: If the database cannot be reached
	AttachPaymentMethod(ctx context.Context, business *entity.Business) error
}
