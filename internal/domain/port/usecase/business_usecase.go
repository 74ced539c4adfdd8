package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// BusinessAccount is a business together with its current balance
type BusinessAccount struct {
	Business *entity.Business
	Balance  *entity.CreditBalance
}

// AutoTopUpUpdate carries new auto-top-up settings
type AutoTopUpUpdate struct {
	Enabled   bool
	Threshold *int
	PackID    string
}

// BusinessUseCase defines onboarding and billing settings operations
type BusinessUseCase interface {
	// CreateBusiness registers a business and grants the trial credits
	CreateBusiness(ctx context.Context, name string) (*BusinessAccount, error)

	// GetBusiness returns a business with its balance
	GetBusiness(ctx context.Context, id uuid.UUID) (*BusinessAccount, error)

	// UpdateAutoTopUp validates and stores auto-top-up settings
	UpdateAutoTopUp(ctx context.Context, id uuid.UUID, update AutoTopUpUpdate) (*entity.Business, error)

	// AttachPaymentMethod stores the customer and payment method used for off-session charges
	AttachPaymentMethod(ctx context.Context, id uuid.UUID, customerID, paymentMethodID string) (*entity.Business, error)
}
