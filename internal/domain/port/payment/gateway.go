package payment

import (
	"context"
)

// ChargeStatus is the outcome reported by the payment processor
type ChargeStatus string

// ChargeStatus constants
const (
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeDeclined  ChargeStatus = "declined"
	ChargeFailed    ChargeStatus = "failed"
)

// ChargeRequest describes an off-session charge against a stored payment method
type ChargeRequest struct {
	BusinessID      string
	CustomerID      string
	PaymentMethodID string
	PackID          string
	Credits         int
	AmountCents     int64
	IdempotencyKey  string
	Description     string
}

// ChargeResult is the processor's answer to a charge
type ChargeResult struct {
	Status      ChargeStatus
	ChargeID    string // empty when the processor never created a charge
	DeclineCode string
	Message     string
}

// Gateway charges a stored payment method without the customer present.
// Declines are reported through ChargeResult; an error means the outcome is unknown
type Gateway interface {
	ChargeOffSession(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
