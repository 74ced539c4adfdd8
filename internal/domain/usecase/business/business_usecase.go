package business

import (
	"context"

	"github.com/google/uuid"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// DefaultTrialGrant is the number of credits a new business starts with
const DefaultTrialGrant = 30

// BusinessUseCase handles onboarding and billing settings of businesses
type BusinessUseCase struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	trialGrant   int
}

// NewBusinessUseCase creates a new BusinessUseCase
func NewBusinessUseCase(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	trialGrant int,
) *BusinessUseCase {
	if trialGrant < 0 {
		trialGrant = DefaultTrialGrant
	}
	return &BusinessUseCase{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
		trialGrant:   trialGrant,
	}
}

// GetBusiness returns a business together with its balance
func (u *BusinessUseCase) GetBusiness(ctx context.Context, id uuid.UUID) (*portuse.BusinessAccount, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}

	business, err := u.uow.GetBusinessRepository(ctx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := u.uow.GetCreditRepository(ctx).GetBalance(ctx, id)
	if err != nil {
		return nil, err
	}

	return &portuse.BusinessAccount{Business: business, Balance: balance}, nil
}
