package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// TransactionType classifies a ledger entry
type TransactionType string

// Transaction types
const (
	TransactionUsage    TransactionType = "usage"
	TransactionPurchase TransactionType = "purchase"
	TransactionBonus    TransactionType = "bonus"
	TransactionTrial    TransactionType = "trial"
	TransactionRefund   TransactionType = "refund"
)

// IsValid reports whether the type belongs to the ledger enumeration
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionUsage, TransactionPurchase, TransactionBonus, TransactionTrial, TransactionRefund:
		return true
	}
	return false
}

// IsDebit is true only for usage; every other type adds credits
func (t TransactionType) IsDebit() bool {
	return t == TransactionUsage
}

// ParseTransactionType converts a raw string into a TransactionType
func ParseTransactionType(raw string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, raw)
	}
	return t, nil
}

// CreditTransaction is an immutable record of one balance change
type CreditTransaction struct {
	ID               uuid.UUID
	BusinessID       uuid.UUID
	Amount           int // negative for usage, positive otherwise
	Type             TransactionType
	Description      string
	RelatedImageID   *string
	PaymentReference *string
	IdempotencyKey   *string
	BalanceAfter     int
	CreatedAt        time.Time
}

// CreditTransactionParams carries the optional references of a ledger entry
type CreditTransactionParams struct {
	Description      string
	RelatedImageID   string
	PaymentReference string
	IdempotencyKey   string
}

// NewUsageTransaction records a deduction of credits
func NewUsageTransaction(
	businessID uuid.UUID,
	credits int,
	balanceAfter int,
	params CreditTransactionParams,
	timeProvider coreport.TimeProvider,
) (*CreditTransaction, error) {
	return newCreditTransaction(businessID, TransactionUsage, credits, balanceAfter, params, timeProvider)
}

// NewCreditingTransaction records credits added to the balance (purchase, bonus, trial, refund)
func NewCreditingTransaction(
	businessID uuid.UUID,
	txType TransactionType,
	credits int,
	balanceAfter int,
	params CreditTransactionParams,
	timeProvider coreport.TimeProvider,
) (*CreditTransaction, error) {
	if txType.IsDebit() {
		return nil, fmt.Errorf("%w: %s cannot add credits", errs.ErrInvalidTransactionType, txType)
	}
	return newCreditTransaction(businessID, txType, credits, balanceAfter, params, timeProvider)
}

func newCreditTransaction(
	businessID uuid.UUID,
	txType TransactionType,
	credits int,
	balanceAfter int,
	params CreditTransactionParams,
	timeProvider coreport.TimeProvider,
) (*CreditTransaction, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}
	if !txType.IsValid() {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)
	}
	if credits <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	if balanceAfter < 0 {
		return nil, fmt.Errorf("%w: balance_after %d", errs.ErrInvalidAmount, balanceAfter)
	}

	amount := credits
	if txType.IsDebit() {
		amount = -credits
	}

	return &CreditTransaction{
		ID:               uuid.New(),
		BusinessID:       businessID,
		Amount:           amount,
		Type:             txType,
		Description:      strings.TrimSpace(params.Description),
		RelatedImageID:   optional(params.RelatedImageID),
		PaymentReference: optional(params.PaymentReference),
		IdempotencyKey:   optional(params.IdempotencyKey),
		BalanceAfter:     balanceAfter,
		CreatedAt:        timeProvider.Now(),
	}, nil
}

// Credits returns the absolute number of credits moved
func (t *CreditTransaction) Credits() int {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
