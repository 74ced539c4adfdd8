package model

import (
	"time"

	"github.com/google/uuid"
)

// CreditTransaction represents one append-only ledger entry
type CreditTransaction struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount           int       `gorm:"not null"`
	Type             string    `gorm:"not null;size:20"`
	Description      string    `gorm:"type:text"`
	RelatedImageID   *string   `gorm:"size:255"`
	PaymentReference *string   `gorm:"size:255"`
	IdempotencyKey   *string   `gorm:"size:128"`
	BalanceAfter     int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for CreditTransaction
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
