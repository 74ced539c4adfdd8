package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientCredits    = 4001
	CodeInvalidAmount          = 4002
	CodeInvalidBusinessID      = 4003
	CodeDuplicateTransaction   = 4004
	CodeInvalidPack            = 4005
	CodeInvalidThreshold       = 4006
	CodeInvalidTransactionType = 4007
	CodeInvalidRequest         = 4008
	CodePaymentDeclined        = 4021
	CodePaymentFailed          = 4022
	CodeBusinessNotFound       = 4040
	CodeTopUpInProgress        = 4090
	CodeDuplicateBusiness      = 4091
	CodeConfiguration          = 4220

	// 5xxx - Server errors
	CodeInternalServer   = 5000
	CodeStoreUnavailable = 5030
)

// Base error types
var (
	// ErrInsufficientCredits is returned when a business cannot cover a deduction
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAmount is returned when a credit amount is zero or negative
	ErrInvalidAmount = errors.New("credit amount must be positive")

	// ErrInvalidBusinessID is returned when the business ID is empty or malformed
	ErrInvalidBusinessID = errors.New("invalid business ID")

	// ErrBusinessNotFound is returned when the requested business doesn't exist
	ErrBusinessNotFound = errors.New("business not found")

	// ErrDuplicateBusiness is returned when creating a business that already exists
	ErrDuplicateBusiness = errors.New("business already exists")

	// ErrConfiguration is returned when auto-top-up is enabled without a payment method on file
	ErrConfiguration = errors.New("auto-top-up configuration error")

	// ErrInvalidPack is returned when a pack ID has no known price/credit mapping
	ErrInvalidPack = errors.New("invalid credit pack")

	// ErrInvalidThreshold is returned when an auto-top-up threshold is negative
	ErrInvalidThreshold = errors.New("auto-top-up threshold cannot be negative")

	// ErrInvalidTransactionType is returned for transaction types outside the ledger enumeration
	ErrInvalidTransactionType = errors.New("invalid credit transaction type")

	// ErrPaymentDeclined is returned when the payment gateway reports a card decline
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentFailed is returned for any other non-succeeded charge
	ErrPaymentFailed = errors.New("payment failed")

	// ErrStoreUnavailable is returned when the underlying database read/write fails
	ErrStoreUnavailable = errors.New("credit store unavailable")

	// ErrDuplicateTransaction is returned when an idempotency key was already used
	ErrDuplicateTransaction = errors.New("transaction with this idempotency key already exists")

	// ErrTopUpInProgress is returned when another auto-top-up holds the business lock
	ErrTopUpInProgress = errors.New("auto-top-up already in progress")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientCredits):
		return CodeInsufficientCredits
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidBusinessID):
		return CodeInvalidBusinessID
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrInvalidPack):
		return CodeInvalidPack
	case errors.Is(err, ErrInvalidThreshold):
		return CodeInvalidThreshold
	case errors.Is(err, ErrInvalidTransactionType):
		return CodeInvalidTransactionType
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrPaymentDeclined):
		return CodePaymentDeclined
	case errors.Is(err, ErrPaymentFailed):
		return CodePaymentFailed
	case errors.Is(err, ErrBusinessNotFound):
		return CodeBusinessNotFound
	case errors.Is(err, ErrTopUpInProgress):
		return CodeTopUpInProgress
	case errors.Is(err, ErrDuplicateBusiness):
		return CodeDuplicateBusiness
	case errors.Is(err, ErrConfiguration):
		return CodeConfiguration
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternalServer
	}
}

// InsufficientCreditsError provides detailed error information for a rejected deduction
type InsufficientCreditsError struct {
	BusinessID string
	Requested  int
	Available  int
}

// Error implements the error interface
func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits for business %s: required %d, available %d",
		e.BusinessID, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientCredits
func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientCreditsError) LogFields() map[string]any {
	return map[string]any{
		"error_type":        "insufficient_credits",
		"business_id":       e.BusinessID,
		"requested":         e.Requested,
		"credits_remaining": e.Available,
		"error_code":        CodeInsufficientCredits,
	}
}

// NewInsufficientCreditsError creates a new detailed insufficient credits error
func NewInsufficientCreditsError(businessID string, requested, available int) error {
	return &InsufficientCreditsError{
		BusinessID: businessID,
		Requested:  requested,
		Available:  available,
	}
}

// ConfigurationError reports which payment references are missing for an enabled auto-top-up
type ConfigurationError struct {
	BusinessID string
	Missing    []string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("auto-top-up enabled for business %s but missing %s",
		e.BusinessID, strings.Join(e.Missing, ", "))
}

// Is checks if the target error is an ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// LogFields returns a map of fields for structured logging
func (e *ConfigurationError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "configuration",
		"business_id": e.BusinessID,
		"missing":     e.Missing,
		"error_code":  CodeConfiguration,
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(businessID string, missing ...string) error {
	return &ConfigurationError{
		BusinessID: businessID,
		Missing:    missing,
	}
}

// PaymentError represents a non-succeeded auto-top-up charge
type PaymentError struct {
	BusinessID string
	PackID     string
	Status     string
	ChargeID   string
	Detail     string
	Err        error
}

// Error implements the error interface for PaymentError
func (e *PaymentError) Error() string {
	msg := fmt.Sprintf("auto-top-up charge for business %s (pack %s) ended with status %s",
		e.BusinessID, e.PackID, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *PaymentError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "payment",
		"business_id":    e.BusinessID,
		"pack_id":        e.PackID,
		"payment_status": e.Status,
		"charge_id":      e.ChargeID,
		"detail":         e.Detail,
		"error_code":     ErrorCode(e.Err),
	}
}

// NewPaymentError creates a payment error; err must be ErrPaymentDeclined or ErrPaymentFailed
func NewPaymentError(businessID, packID, status, chargeID, detail string, err error) error {
	return &PaymentError{
		BusinessID: businessID,
		PackID:     packID,
		Status:     status,
		ChargeID:   chargeID,
		Detail:     detail,
		Err:        err,
	}
}

// IsInsufficientCreditsError checks if the error is related to insufficient credits
func IsInsufficientCreditsError(err error) bool {
	return errors.Is(err, ErrInsufficientCredits)
}

// IsBusinessNotFoundError checks if the error is a business not found error
func IsBusinessNotFoundError(err error) bool {
	return errors.Is(err, ErrBusinessNotFound)
}

// IsPaymentError checks if the error is a declined or failed charge
func IsPaymentError(err error) bool {
	return errors.Is(err, ErrPaymentDeclined) || errors.Is(err, ErrPaymentFailed)
}

// IsValidationError checks if the error was caused by bad input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidBusinessID) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidTransactionType) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsStoreUnavailableError checks if the error came from the database layer
func IsStoreUnavailableError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
