package credit

import (
	"context"
	"fmt"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// GrantCredits adds credits from a manual purchase, a bonus or a refund.
// The balance increment and its ledger entry are committed together
func (s *Service) GrantCredits(ctx context.Context, req portuse.GrantRequest) (*entity.CreditTransaction, error) {
	req, err := s.validator.ValidateGrant(req)
	if err != nil {
		return nil, fmt.Errorf("invalid grant: %w", err)
	}

	var recorded *entity.CreditTransaction
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		creditRepo := s.uow.GetCreditRepository(txCtx)

		var balance *entity.CreditBalance
		var err error
		if req.Type == entity.TransactionPurchase {
			balance, err = creditRepo.AddPurchased(txCtx, req.BusinessID, req.Amount)
		} else {
			balance, err = creditRepo.AddBonus(txCtx, req.BusinessID, req.Amount)
		}
		if err != nil {
			return err
		}

		tx, err := entity.NewCreditingTransaction(req.BusinessID, req.Type, req.Amount, balance.CreditsRemaining,
			entity.CreditTransactionParams{
				Description:      req.Description,
				PaymentReference: req.PaymentReference,
			}, s.timeProvider)
		if err != nil {
			return err
		}

		if err := s.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, tx); err != nil {
			return err
		}
		recorded = tx
		return nil
	})
	if err != nil {
		s.logger.Error("Credit grant failed", map[string]any{
			"business_id": req.BusinessID.String(),
			"type":        string(req.Type),
			"amount":      req.Amount,
			"error":       err.Error(),
		})
		return nil, err
	}

	if req.Type == entity.TransactionPurchase {
		s.recorder.CreditsPurchased(req.Amount)
	}
	s.logger.Info("Credits granted", map[string]any{
		"business_id":       req.BusinessID.String(),
		"type":              string(req.Type),
		"amount":            req.Amount,
		"credits_remaining": recorded.BalanceAfter,
	})

	return recorded, nil
}
