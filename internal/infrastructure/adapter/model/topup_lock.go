package model

import (
	"time"

	"github.com/google/uuid"
)

// TopUpLock marks a business whose auto-top-up charge is in flight
type TopUpLock struct {
	BusinessID uuid.UUID `gorm:"type:uuid;primaryKey"`
	LockedAt   time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for TopUpLock
func (TopUpLock) TableName() string {
	return "top_up_locks"
}
