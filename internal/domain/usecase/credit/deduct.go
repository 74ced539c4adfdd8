package credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// Deduct handles a credit-consuming operation:
// 1. Validates the request
// 2. Replays an earlier deduction recorded under the same idempotency key
// 3. Decrements the balance with one conditional update and appends the usage transaction
// 4. Evaluates auto-top-up once the deduction is committed
func (s *Service) Deduct(ctx context.Context, req portuse.DeductRequest) (*portuse.DeductResult, error) {
	req, err := s.validator.ValidateDeduction(req)
	if err != nil {
		return nil, fmt.Errorf("invalid deduction: %w", err)
	}

	if prior, found, err := s.idempotencyHandler.CheckIdempotency(ctx, req); err != nil {
		return nil, err
	} else if found {
		return s.replay(req, prior), nil
	}

	recorded, err := s.deductAndRecord(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInsufficientCredits):
			return nil, s.insufficientCredits(ctx, req.BusinessID, req.Amount)

		case errors.Is(err, errs.ErrDuplicateTransaction) && req.IdempotencyKey != "":
			// A concurrent request with the same key won the insert
			prior, found, lookupErr := s.idempotencyHandler.CheckIdempotency(ctx, req)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if found {
				return s.replay(req, prior), nil
			}
		}

		s.logger.Error("Deduction failed", map[string]any{
			"business_id": req.BusinessID.String(),
			"amount":      req.Amount,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.recorder.CreditsDeducted(req.Amount)
	s.logger.Info("Credits deducted", map[string]any{
		"business_id":       req.BusinessID.String(),
		"amount":            req.Amount,
		"credits_remaining": recorded.BalanceAfter,
		"transaction_id":    recorded.ID.String(),
	})

	result := &portuse.DeductResult{
		Transaction:      recorded,
		CreditsRemaining: recorded.BalanceAfter,
	}
	result.TopUp = s.evaluateTopUp(ctx, req.BusinessID)
	if result.TopUp != nil && result.TopUp.Outcome == portuse.TopUpCredited {
		result.CreditsRemaining = result.TopUp.BalanceAfter
	}

	return result, nil
}

// deductAndRecord runs the balance update and the ledger append in one database transaction
func (s *Service) deductAndRecord(ctx context.Context, req portuse.DeductRequest) (*entity.CreditTransaction, error) {
	var recorded *entity.CreditTransaction

	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		balance, err := s.uow.GetCreditRepository(txCtx).Deduct(txCtx, req.BusinessID, req.Amount)
		if err != nil {
			return err
		}

		tx, err := entity.NewUsageTransaction(req.BusinessID, req.Amount, balance.CreditsRemaining, entity.CreditTransactionParams{
			Description:    req.Description,
			RelatedImageID: req.RelatedImageID,
			IdempotencyKey: req.IdempotencyKey,
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
		return nil, err
	}

	return recorded, nil
}

func (s *Service) replay(req portuse.DeductRequest, prior *entity.CreditTransaction) *portuse.DeductResult {
	s.logger.Info("Replaying deduction for reused idempotency key", map[string]any{
		"business_id":     req.BusinessID.String(),
		"idempotency_key": req.IdempotencyKey,
		"transaction_id":  prior.ID.String(),
	})

	return &portuse.DeductResult{
		Transaction:      prior,
		CreditsRemaining: prior.BalanceAfter,
		Replayed:         true,
	}
}

// evaluateTopUp runs the auto-top-up trigger. Its failures are logged and
// reported in the result; the committed deduction is never affected
func (s *Service) evaluateTopUp(ctx context.Context, businessID uuid.UUID) *portuse.TopUpResult {
	if s.topUp == nil {
		return nil
	}

	// The deduction is committed; a client disconnect must not abort a charge in flight
	result, err := s.topUp.Evaluate(context.WithoutCancel(ctx), businessID)
	if err != nil {
		fields := map[string]any{
			"business_id": businessID.String(),
			"error":       err.Error(),
		}
		if result != nil {
			fields["outcome"] = string(result.Outcome)
		}
		s.logger.Warn("Auto-top-up did not complete after deduction", fields)

		if result == nil {
			result = &portuse.TopUpResult{Outcome: portuse.TopUpFailed, Error: err.Error()}
		}
	}

	return result
}
