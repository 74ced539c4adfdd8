package entity

import (
	"time"

	"github.com/google/uuid"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// TopUpStatus is the outcome of one auto-top-up charge attempt
type TopUpStatus string

// TopUpStatus constants
const (
	TopUpSucceeded TopUpStatus = "succeeded"
	TopUpFailed    TopUpStatus = "failed"
)

// AutoTopUpLog is the billing-operations audit record of a charge attempt
type AutoTopUpLog struct {
	ID                 uuid.UUID
	BusinessID         uuid.UUID
	PackID             string
	CreditsAdded       int
	AmountChargedCents int64
	PaymentReference   string
	Status             TopUpStatus
	ErrorMessage       string
	BalanceBefore      int
	BalanceAfter       int
	CreatedAt          time.Time
}

// NewSucceededTopUpLog records a charge that credited the account
func NewSucceededTopUpLog(
	businessID uuid.UUID,
	pack CreditPack,
	paymentReference string,
	balanceBefore int,
	balanceAfter int,
	timeProvider coreport.TimeProvider,
) *AutoTopUpLog {
	return &AutoTopUpLog{
		ID:                 uuid.New(),
		BusinessID:         businessID,
		PackID:             pack.ID,
		CreditsAdded:       pack.Credits,
		AmountChargedCents: pack.PriceInCents(),
		PaymentReference:   paymentReference,
		Status:             TopUpSucceeded,
		BalanceBefore:      balanceBefore,
		BalanceAfter:       balanceAfter,
		CreatedAt:          timeProvider.Now(),
	}
}

// NewFailedTopUpLog records a charge that did not succeed; the balance is unchanged
func NewFailedTopUpLog(
	businessID uuid.UUID,
	pack CreditPack,
	paymentReference string,
	errorMessage string,
	balance int,
	timeProvider coreport.TimeProvider,
) *AutoTopUpLog {
	return &AutoTopUpLog{
		ID:                 uuid.New(),
		BusinessID:         businessID,
		PackID:             pack.ID,
		CreditsAdded:       0,
		AmountChargedCents: 0,
		PaymentReference:   paymentReference,
		Status:             TopUpFailed,
		ErrorMessage:       errorMessage,
		BalanceBefore:      balance,
		BalanceAfter:       balance,
		CreatedAt:          timeProvider.Now(),
	}
}
