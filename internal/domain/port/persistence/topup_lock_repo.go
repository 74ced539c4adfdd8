package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopUpLockRepository guards the auto-top-up charge of a business so that
// concurrent deductions crossing the threshold charge the card at most once
type TopUpLockRepository interface {
	// AcquireLock takes the top-up lock for the business; it expires after ttl
	//
	// Possible errors:
	// - ErrTopUpInProgress: If another process holds an unexpired lock
	// - ErrStoreUnavailable: If the database cannot be reached
	AcquireLock(ctx context.Context, businessID uuid.UUID, ttl time.Duration) error

	// ReleaseLock releases a previously acquired lock
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the database cannot be reached
	ReleaseLock(ctx context.Context, businessID uuid.UUID) error

	// CleanupExpiredLocks removes locks whose ttl has passed and returns how many were removed
	CleanupExpiredLocks(ctx context.Context) (int64, error)
}
