package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// CreditBalance is the prepaid usage balance of one business
type CreditBalance struct {
	BusinessID       uuid.UUID
	CreditsRemaining int // never negative
	CreditsUsed      int // cumulative
	CreditsPurchased int // cumulative
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewCreditBalance creates the balance granted at signup
func NewCreditBalance(businessID uuid.UUID, startingGrant int, timeProvider coreport.TimeProvider) (*CreditBalance, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}
	if startingGrant < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &CreditBalance{
		BusinessID:       businessID,
		CreditsRemaining: startingGrant,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// CanDeduct checks if the balance covers the amount
func (b *CreditBalance) CanDeduct(amount int) bool {
	return amount > 0 && b.CreditsRemaining >= amount
}

// BelowThreshold reports whether an auto-top-up should be considered
func (b *CreditBalance) BelowThreshold(threshold int) bool {
	return b.CreditsRemaining < threshold
}
