package dto

import (
	"time"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// BalanceResponse represents the API response for a business balance
type BalanceResponse struct {
	BusinessID       string    `json:"businessId"`
	CreditsRemaining int       `json:"creditsRemaining"`
	CreditsUsed      int       `json:"creditsUsed"`
	CreditsPurchased int       `json:"creditsPurchased"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CheckCreditsRequest asks whether a balance covers an amount
type CheckCreditsRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// CheckCreditsResponse confirms that the balance covers the requested amount
type CheckCreditsResponse struct {
	Sufficient       bool `json:"sufficient"`
	Required         int  `json:"required"`
	CreditsRemaining int  `json:"creditsRemaining"`
}

// NewBalanceResponse converts a balance entity
func NewBalanceResponse(balance *entity.CreditBalance) BalanceResponse {
	return BalanceResponse{
		BusinessID:       balance.BusinessID.String(),
		CreditsRemaining: balance.CreditsRemaining,
		CreditsUsed:      balance.CreditsUsed,
		CreditsPurchased: balance.CreditsPurchased,
		UpdatedAt:        balance.UpdatedAt,
	}
}
