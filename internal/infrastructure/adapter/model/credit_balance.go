package model

import (
	"time"

	"github.com/google/uuid"
)

// CreditBalance is the single mutable balance row of a business
type CreditBalance struct {
	BusinessID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreditsRemaining int       `gorm:"not null;check:credits_remaining_non_negative,credits_remaining >= 0"`
	CreditsUsed      int       `gorm:"not null"`
	CreditsPurchased int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for CreditBalance
func (CreditBalance) TableName() string {
	return "credit_balances"
}
