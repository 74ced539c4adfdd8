package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// TopUpOutcome is the terminal state of one auto-top-up evaluation
type TopUpOutcome string

// TopUpOutcome constants
const (
	TopUpDisabled       TopUpOutcome = "disabled"
	TopUpAboveThreshold TopUpOutcome = "above_threshold"
	TopUpInProgress     TopUpOutcome = "in_progress"
	TopUpCredited       TopUpOutcome = "credited"
	TopUpFailed         TopUpOutcome = "failed"
)

// TopUpResult describes what an evaluation did
type TopUpResult struct {
	Outcome       TopUpOutcome
	PackID        string
	CreditsAdded  int
	BalanceBefore int
	BalanceAfter  int
	ChargeID      string
	Error         string
}

// TopUpUseCase defines the auto-top-up trigger
type TopUpUseCase interface {
	// Evaluate checks the balance against the business threshold and charges the
	// configured pack when it is below. The returned error carries the failure kind
	// (ConfigurationError, PaymentDeclined, PaymentFailed, StoreUnavailable)
	Evaluate(ctx context.Context, businessID uuid.UUID) (*TopUpResult, error)

	// ListLogs returns the audit log of charge attempts newest first
	ListLogs(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error)
}
