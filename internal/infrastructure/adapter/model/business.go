package model

import (
	"time"

	"github.com/google/uuid"
)

// Business represents the database model for businesses
type Business struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"not null;size:255"`
	AutoTopUpEnabled      bool      `gorm:"not null"`
	AutoTopUpThreshold    *int      `gorm:"check:auto_top_up_threshold IS NULL OR auto_top_up_threshold >= 0"`
	AutoTopUpPackID       string    `gorm:"size:32"`
	StripeCustomerID      string    `gorm:"size:255"`
	StripePaymentMethodID string    `gorm:"size:255"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName specifies the table name for Business
func (Business) TableName() string {
	return "businesses"
}
