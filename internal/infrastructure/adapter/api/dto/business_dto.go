package dto

import (
	"time"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// CreateBusinessRequest represents the API request for onboarding a business
type CreateBusinessRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// AutoTopUpRequest carries new auto-top-up settings
type AutoTopUpRequest struct {
	Enabled   *bool  `json:"enabled" binding:"required"`
	Threshold *int   `json:"threshold" binding:"omitempty,gte=0"`
	PackID    string `json:"packId" binding:"max=64"`
}

// PaymentMethodRequest stores the Stripe references used for off-session charges
type PaymentMethodRequest struct {
	CustomerID      string `json:"customerId" binding:"required,max=255"`
	PaymentMethodID string `json:"paymentMethodId" binding:"required,max=255"`
}

// AutoTopUpResponse shows the stored and effective auto-top-up settings
type AutoTopUpResponse struct {
	Enabled            bool   `json:"enabled"`
	Threshold          *int   `json:"threshold,omitempty"`
	PackID             string `json:"packId,omitempty"`
	EffectiveThreshold int    `json:"effectiveThreshold"`
	EffectivePackID    string `json:"effectivePackId"`
}

// BusinessResponse represents a business, with its balance when known
type BusinessResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	AutoTopUp        AutoTopUpResponse `json:"autoTopUp"`
	HasPaymentMethod bool              `json:"hasPaymentMethod"`
	Balance          *BalanceResponse  `json:"balance,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewBusinessResponse converts a business entity. Stripe references are never exposed
func NewBusinessResponse(business *entity.Business) BusinessResponse {
	settings := business.AutoTopUp
	return BusinessResponse{
		ID:   business.ID.String(),
		Name: business.Name,
		AutoTopUp: AutoTopUpResponse{
			Enabled:            settings.Enabled,
			Threshold:          settings.Threshold,
			PackID:             settings.PackID,
			EffectiveThreshold: settings.EffectiveThreshold(),
			EffectivePackID:    settings.EffectivePackID(),
		},
		HasPaymentMethod: business.HasPaymentMethod(),
		CreatedAt:        business.CreatedAt,
		UpdatedAt:        business.UpdatedAt,
	}
}

// NewBusinessAccountResponse converts a business together with its balance
func NewBusinessAccountResponse(account *portuse.BusinessAccount) BusinessResponse {
	resp := NewBusinessResponse(account.Business)
	if account.Balance != nil {
		balance := NewBalanceResponse(account.Balance)
		resp.Balance = &balance
	}
	return resp
}
