package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// deductSQL is the single conditional update behind every deduction.
// The row is changed only if it still covers the amount, so concurrent
// deductions can never take the balance below zero
const deductSQL = `UPDATE credit_balances
SET credits_remaining = credits_remaining - ?,
    credits_used = credits_used + ?,
    updated_at = ?
WHERE business_id = ? AND credits_remaining >= ?
RETURNING *`

const addPurchasedSQL = `UPDATE credit_balances
SET credits_remaining = credits_remaining + ?,
    credits_purchased = credits_purchased + ?,
    updated_at = ?
WHERE business_id = ?
RETURNING *`

const addBonusSQL = `UPDATE credit_balances
SET credits_remaining = credits_remaining + ?,
    updated_at = ?
WHERE business_id = ?
RETURNING *`

// CreditRepository implements persistence.CreditRepository using GORM
type CreditRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCreditRepository creates a new CreditRepository instance
func NewCreditRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *CreditRepository {
	return &CreditRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func balanceToEntity(m *model.CreditBalance) *entity.CreditBalance {
	return &entity.CreditBalance{
		BusinessID:       m.BusinessID,
		CreditsRemaining: m.CreditsRemaining,
		CreditsUsed:      m.CreditsUsed,
		CreditsPurchased: m.CreditsPurchased,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GetBalance retrieves the balance row of a business
func (r *CreditRepository) GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error) {
	var m model.CreditBalance
	result := r.db.WithContext(ctx).Where("business_id = ?", businessID).Take(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBusinessNotFound
		}
		return nil, storeUnavailable(r.logger, "getting credit balance", result.Error, map[string]any{
			"business_id": businessID.String(),
		})
	}
	return balanceToEntity(&m), nil
}

// CreateBalance inserts the initial balance row of a business
func (r *CreditRepository) CreateBalance(ctx context.Context, balance *entity.CreditBalance) error {
	m := model.CreditBalance{
		BusinessID:       balance.BusinessID,
		CreditsRemaining: balance.CreditsRemaining,
		CreditsUsed:      balance.CreditsUsed,
		CreditsPurchased: balance.CreditsPurchased,
		CreatedAt:        balance.CreatedAt,
		UpdatedAt:        balance.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateBusiness
		}
		return storeUnavailable(r.logger, "creating credit balance", result.Error, map[string]any{
			"business_id": balance.BusinessID.String(),
		})
	}
	return nil
}

// Deduct atomically subtracts amount and returns the updated row. When no row
// matches, the business is probed to tell a missing balance from an insufficient one
func (r *CreditRepository) Deduct(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	var m model.CreditBalance
	result := r.db.WithContext(ctx).
		Raw(deductSQL, amount, amount, r.timeProvider.Now(), businessID, amount).
		Scan(&m)
	if result.Error != nil {
		if r.errorClassifier.IsCheckViolation(result.Error) {
			return nil, errs.ErrInsufficientCredits
		}
		return nil, storeUnavailable(r.logger, "deducting credits", result.Error, map[string]any{
			"business_id": businessID.String(),
			"amount":      amount,
		})
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetBalance(ctx, businessID); err != nil {
			return nil, err
		}
		r.logger.Debug("Conditional deduction matched no row", map[string]any{
			"business_id": businessID.String(),
			"amount":      amount,
		})
		return nil, errs.ErrInsufficientCredits
	}

	return balanceToEntity(&m), nil
}

// AddPurchased increments the balance and the purchased total
func (r *CreditRepository) AddPurchased(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	return r.increment(ctx, "adding purchased credits", businessID, amount,
		addPurchasedSQL, amount, amount, r.timeProvider.Now(), businessID)
}

// AddBonus increments the balance without touching the purchased total
func (r *CreditRepository) AddBonus(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	return r.increment(ctx, "adding bonus credits", businessID, amount,
		addBonusSQL, amount, r.timeProvider.Now(), businessID)
}

func (r *CreditRepository) increment(
	ctx context.Context,
	operation string,
	businessID uuid.UUID,
	amount int,
	query string,
	args ...any,
) (*entity.CreditBalance, error) {
	var m model.CreditBalance
	result := r.db.WithContext(ctx).Raw(query, args...).Scan(&m)
	if result.Error != nil {
		return nil, storeUnavailable(r.logger, operation, result.Error, map[string]any{
			"business_id": businessID.String(),
			"amount":      amount,
		})
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrBusinessNotFound
	}
	return balanceToEntity(&m), nil
}
