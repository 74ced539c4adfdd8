package model

import (
	"time"

	"github.com/google/uuid"
)

// AutoTopUpLog records one automatic top-up attempt
type AutoTopUpLog struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PackID             string    `gorm:"not null;size:32"`
	CreditsAdded       int       `gorm:"not null"`
	AmountChargedCents int64     `gorm:"not null"`
	PaymentReference   string    `gorm:"size:255"`
	Status             string    `gorm:"not null;size:20"`
	ErrorMessage       string    `gorm:"type:text"`
	BalanceBefore      int       `gorm:"not null"`
	BalanceAfter       int       `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
}

// TableName specifies the table name for AutoTopUpLog
func (AutoTopUpLog) TableName() string {
	return "auto_top_up_logs"
}
