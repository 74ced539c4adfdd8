package credit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// DefaultUsageDescription is recorded when a deduction does not describe itself
const DefaultUsageDescription = "AI image enhancement"

const (
	maxDescriptionLength    = 255
	maxIdempotencyKeyLength = 128
)

// CreditValidator provides validation for credit requests
type CreditValidator struct{}

// NewCreditValidator creates a new CreditValidator
func NewCreditValidator() *CreditValidator {
	return &CreditValidator{}
}

// ValidateDeduction validates a deduction and fills in defaults
func (v *CreditValidator) ValidateDeduction(req portuse.DeductRequest) (portuse.DeductRequest, error) {
	if err := v.validateBusinessID(req.BusinessID); err != nil {
		return req, err
	}
	if err := v.validateAmount(req.Amount); err != nil {
		return req, err
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		req.Description = DefaultUsageDescription
	}
	if len(req.Description) > maxDescriptionLength {
		return req, fmt.Errorf("%w: description longer than %d characters", errs.ErrInvalidRequest, maxDescriptionLength)
	}

	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		return req, fmt.Errorf("%w: idempotency key longer than %d characters", errs.ErrInvalidRequest, maxIdempotencyKeyLength)
	}

	return req, nil
}

// ValidateGrant validates a manual credit grant
func (v *CreditValidator) ValidateGrant(req portuse.GrantRequest) (portuse.GrantRequest, error) {
	if err := v.validateBusinessID(req.BusinessID); err != nil {
		return req, err
	}
	if err := v.validateAmount(req.Amount); err != nil {
		return req, err
	}
	if !req.Type.IsValid() || req.Type.IsDebit() || req.Type == entity.TransactionTrial {
		return req, fmt.Errorf("%w: %q cannot be granted", errs.ErrInvalidTransactionType, req.Type)
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		req.Description = fmt.Sprintf("%s of %d credits", req.Type, req.Amount)
	}
	return req, nil
}

func (v *CreditValidator) validateBusinessID(id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalidBusinessID
	}
	return nil
}

func (v *CreditValidator) validateAmount(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidAmount, amount)
	}
	return nil
}
