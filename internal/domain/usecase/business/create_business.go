package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// CreateBusiness registers a business, opens its credit balance with the trial
// grant and records the grant in the ledger
func (u *BusinessUseCase) CreateBusiness(ctx context.Context, name string) (*portuse.BusinessAccount, error) {
	business, err := entity.NewBusiness(uuid.New(), name, u.timeProvider)
	if err != nil {
		return nil, err
	}

	balance, err := entity.NewCreditBalance(business.ID, u.trialGrant, u.timeProvider)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.uow.GetBusinessRepository(txCtx).Create(txCtx, business); err != nil {
			return err
		}
		if err := u.uow.GetCreditRepository(txCtx).CreateBalance(txCtx, balance); err != nil {
			return err
		}
		if u.trialGrant == 0 {
			return nil
		}

		trial, err := entity.NewCreditingTransaction(business.ID, entity.TransactionTrial, u.trialGrant, balance.CreditsRemaining,
			entity.CreditTransactionParams{Description: "Free trial credits"}, u.timeProvider)
		if err != nil {
			return err
		}
		return u.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, trial)
	})
	if err != nil {
		u.logger.Error("Failed to create business", map[string]any{
			"business_id": business.ID.String(),
			"error":       err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Business created", map[string]any{
		"business_id":   business.ID.String(),
		"trial_credits": u.trialGrant,
	})

	return &portuse.BusinessAccount{Business: business, Balance: balance}, nil
}
