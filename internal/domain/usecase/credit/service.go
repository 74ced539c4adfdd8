package credit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/metrics"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// DefaultListLimit bounds ledger pages when the caller gives no limit
const DefaultListLimit = 50

// MaxListLimit caps the page size of ledger listings
const MaxListLimit = 500

// Service is the deduction service and the read side of the credit ledger
type Service struct {
	uow                persistence.UnitOfWork
	topUp              portuse.TopUpUseCase
	validator          *CreditValidator
	idempotencyHandler *IdempotencyHandler
	recorder           metrics.Recorder
	timeProvider       coreport.TimeProvider
	logger             coreport.Logger
	listLimit          int
}

// NewCreditService creates a new credit service.
// topUp may be nil, in which case deductions never evaluate auto-top-up
func NewCreditService(
	uow persistence.UnitOfWork,
	topUp portuse.TopUpUseCase,
	recorder metrics.Recorder,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	listLimit int,
) *Service {
	if listLimit <= 0 || listLimit > MaxListLimit {
		listLimit = DefaultListLimit
	}

	return &Service{
		uow:                uow,
		topUp:              topUp,
		validator:          NewCreditValidator(),
		idempotencyHandler: NewIdempotencyHandler(uow),
		recorder:           recorder,
		timeProvider:       timeProvider,
		logger:             logger,
		listLimit:          listLimit,
	}
}

// GetBalance returns the current balance of a business
func (s *Service) GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}
	return s.uow.GetCreditRepository(ctx).GetBalance(ctx, businessID)
}

// CheckCredits returns InsufficientCreditsError when the balance cannot cover amount.
// It does not reserve credits; the deduction itself remains the authoritative check
func (s *Service) CheckCredits(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	if err := s.validator.validateBusinessID(businessID); err != nil {
		return nil, err
	}
	if err := s.validator.validateAmount(amount); err != nil {
		return nil, err
	}

	balance, err := s.uow.GetCreditRepository(ctx).GetBalance(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if !balance.CanDeduct(amount) {
		s.recorder.InsufficientCredits()
		return balance, errs.NewInsufficientCreditsError(businessID.String(), amount, balance.CreditsRemaining)
	}
	return balance, nil
}

// ListTransactions returns the ledger of a business newest first
func (s *Service) ListTransactions(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}
	limit, offset = s.page(limit, offset)

	// Distinguish an unknown business from an empty ledger
	if _, err := s.uow.GetCreditRepository(ctx).GetBalance(ctx, businessID); err != nil {
		return nil, err
	}
	return s.uow.GetCreditTransactionRepository(ctx).ListByBusiness(ctx, businessID, limit, offset)
}

func (s *Service) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.listLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// insufficientCredits builds the error for a refused deduction from the unchanged balance
func (s *Service) insufficientCredits(ctx context.Context, businessID uuid.UUID, requested int) error {
	s.recorder.InsufficientCredits()

	available := 0
	balance, err := s.uow.GetCreditRepository(ctx).GetBalance(ctx, businessID)
	if err != nil {
		s.logger.Warn("Could not read balance after refused deduction", map[string]any{
			"business_id": businessID.String(),
			"error":       err.Error(),
		})
	} else {
		available = balance.CreditsRemaining
	}

	insufficient := errs.NewInsufficientCreditsError(businessID.String(), requested, available)
	var detailed *errs.InsufficientCreditsError
	if errors.As(insufficient, &detailed) {
		s.logger.Info("Deduction refused", detailed.LogFields())
	}
	return insufficient
}
