package dto

import (
	"time"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// DeductRequest represents the API request for consuming credits
type DeductRequest struct {
	Amount         int    `json:"amount" binding:"required,gt=0"`
	Description    string `json:"description" binding:"max=500"`
	RelatedImageID string `json:"relatedImageId" binding:"max=255"`
}

// GrantRequest represents the API request for a purchase, bonus or refund
type GrantRequest struct {
	Type             string `json:"type" binding:"required,oneof=purchase bonus refund"`
	Amount           int    `json:"amount" binding:"required,gt=0"`
	Description      string `json:"description" binding:"max=500"`
	PaymentReference string `json:"paymentReference" binding:"max=255"`
}

// TransactionResponse represents one ledger entry
type TransactionResponse struct {
	ID               string    `json:"id"`
	BusinessID       string    `json:"businessId"`
	Type             string    `json:"type"`
	Amount           int       `json:"amount"`
	BalanceAfter     int       `json:"balanceAfter"`
	Description      string    `json:"description,omitempty"`
	RelatedImageID   *string   `json:"relatedImageId,omitempty"`
	PaymentReference *string   `json:"paymentReference,omitempty"`
	IdempotencyKey   *string   `json:"idempotencyKey,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TransactionListResponse is one page of the ledger, newest first
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// DeductResponse represents the API response for a processed deduction
type DeductResponse struct {
	Transaction      TransactionResponse `json:"transaction"`
	CreditsRemaining int                 `json:"creditsRemaining"`
	Replayed         bool                `json:"replayed"`
	TopUp            *TopUpResponse      `json:"autoTopUp,omitempty"`
}

// NewTransactionResponse converts a ledger entry
func NewTransactionResponse(tx *entity.CreditTransaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID.String(),
		BusinessID:       tx.BusinessID.String(),
		Type:             string(tx.Type),
		Amount:           tx.Amount,
		BalanceAfter:     tx.BalanceAfter,
		Description:      tx.Description,
		RelatedImageID:   tx.RelatedImageID,
		PaymentReference: tx.PaymentReference,
		IdempotencyKey:   tx.IdempotencyKey,
		CreatedAt:        tx.CreatedAt,
	}
}

// NewTransactionListResponse converts a ledger page
func NewTransactionListResponse(txs []*entity.CreditTransaction, limit, offset int) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, NewTransactionResponse(tx))
	}
	return TransactionListResponse{Transactions: items, Limit: limit, Offset: offset}
}

// NewDeductResponse converts the outcome of a deduction
func NewDeductResponse(result *portuse.DeductResult) DeductResponse {
	resp := DeductResponse{
		Transaction:      NewTransactionResponse(result.Transaction),
		CreditsRemaining: result.CreditsRemaining,
		Replayed:         result.Replayed,
	}
	if result.TopUp != nil {
		topUp := NewTopUpResponse(result.TopUp)
		resp.TopUp = &topUp
	}
	return resp
}
