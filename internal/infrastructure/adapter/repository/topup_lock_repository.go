package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// acquireLockSQL inserts the lock or takes over an expired one. A live lock
// leaves the row untouched, which shows up as zero affected rows
const acquireLockSQL = `INSERT INTO top_up_locks (business_id, locked_at, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (business_id) DO UPDATE
SET locked_at = EXCLUDED.locked_at,
    expires_at = EXCLUDED.expires_at,
    updated_at = EXCLUDED.updated_at
WHERE top_up_locks.expires_at <= ?`

// TopUpLockRepository serializes auto-top-up charges per business across processes
type TopUpLockRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTopUpLockRepository creates a new TopUpLockRepository instance
func NewTopUpLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TopUpLockRepository {
	return &TopUpLockRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// AcquireLock takes the top-up lock of a business for ttl.
// It returns ErrTopUpInProgress while another holder's lock is live
func (r *TopUpLockRepository) AcquireLock(ctx context.Context, businessID uuid.UUID, ttl time.Duration) error {
	now := r.timeProvider.Now()
	expiresAt := now.Add(ttl)

	result := r.db.WithContext(ctx).Exec(acquireLockSQL,
		businessID, now, expiresAt, now, now,
		now,
	)
	if result.Error != nil {
		return storeUnavailable(r.logger, "acquiring top-up lock", result.Error, map[string]any{
			"business_id": businessID.String(),
		})
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Top-up lock is held", map[string]any{
			"business_id": businessID.String(),
		})
		return errs.ErrTopUpInProgress
	}

	r.logger.Debug("Top-up lock acquired", map[string]any{
		"business_id": businessID.String(),
		"expires_at":  expiresAt,
	})
	return nil
}

// ReleaseLock deletes the lock. A missing lock is not an error
func (r *TopUpLockRepository) ReleaseLock(ctx context.Context, businessID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("business_id = ?", businessID).Delete(&model.TopUpLock{})
	if result.Error != nil {
		if isContextError(result.Error) {
			r.logger.Warn("Context ended before releasing top-up lock, it will expire", map[string]any{
				"business_id": businessID.String(),
			})
			return nil
		}
		return storeUnavailable(r.logger, "releasing top-up lock", result.Error, map[string]any{
			"business_id": businessID.String(),
		})
	}
	return nil
}

// CleanupExpiredLocks removes locks left behind by crashed holders
func (r *TopUpLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", r.timeProvider.Now()).Delete(&model.TopUpLock{})
	if result.Error != nil {
		return 0, storeUnavailable(r.logger, "cleaning up top-up locks", result.Error, nil)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Expired top-up locks removed", map[string]any{
			"locks_removed": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}
