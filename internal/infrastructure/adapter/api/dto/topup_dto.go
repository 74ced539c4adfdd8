package dto

import (
	"time"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// TopUpResponse describes one auto-top-up evaluation
type TopUpResponse struct {
	Outcome       string `json:"outcome"`
	PackID        string `json:"packId,omitempty"`
	CreditsAdded  int    `json:"creditsAdded,omitempty"`
	BalanceBefore int    `json:"balanceBefore"`
	BalanceAfter  int    `json:"balanceAfter"`
	ChargeID      string `json:"chargeId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// TopUpLogResponse is one entry of the auto-top-up audit log
type TopUpLogResponse struct {
	ID                 string    `json:"id"`
	PackID             string    `json:"packId"`
	CreditsAdded       int       `json:"creditsAdded"`
	AmountChargedCents int64     `json:"amountChargedCents"`
	PaymentReference   string    `json:"paymentReference,omitempty"`
	Status             string    `json:"status"`
	ErrorMessage       string    `json:"errorMessage,omitempty"`
	BalanceBefore      int       `json:"balanceBefore"`
	BalanceAfter       int       `json:"balanceAfter"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TopUpLogListResponse is one page of the auto-top-up log, newest first
type TopUpLogListResponse struct {
	Logs   []TopUpLogResponse `json:"logs"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// NewTopUpResponse converts an evaluation result
func NewTopUpResponse(result *portuse.TopUpResult) TopUpResponse {
	return TopUpResponse{
		Outcome:       string(result.Outcome),
		PackID:        result.PackID,
		CreditsAdded:  result.CreditsAdded,
		BalanceBefore: result.BalanceBefore,
		BalanceAfter:  result.BalanceAfter,
		ChargeID:      result.ChargeID,
		Error:         result.Error,
	}
}

// NewTopUpLogListResponse converts a page of log entries
func NewTopUpLogListResponse(logs []*entity.AutoTopUpLog, limit, offset int) TopUpLogListResponse {
	items := make([]TopUpLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, TopUpLogResponse{
			ID:                 l.ID.String(),
			PackID:             l.PackID,
			CreditsAdded:       l.CreditsAdded,
			AmountChargedCents: l.AmountChargedCents,
			PaymentReference:   l.PaymentReference,
			Status:             string(l.Status),
			ErrorMessage:       l.ErrorMessage,
			BalanceBefore:      l.BalanceBefore,
			BalanceAfter:       l.BalanceAfter,
			CreatedAt:          l.CreatedAt,
		})
	}
	return TopUpLogListResponse{Logs: items, Limit: limit, Offset: offset}
}
