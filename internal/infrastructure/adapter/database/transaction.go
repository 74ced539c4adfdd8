package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// UnitOfWorkOptions tunes the transactions opened by a UnitOfWork
type UnitOfWorkOptions struct {
	Isolation sql.IsolationLevel
	Retry     RetryConfig
}

// DefaultUnitOfWorkOptions returns read-committed transactions with the default retry policy.
// Balance updates are single conditional statements, so read committed keeps them atomic
func DefaultUnitOfWorkOptions() UnitOfWorkOptions {
	return UnitOfWorkOptions{
		Isolation: sql.LevelReadCommitted,
		Retry:     DefaultRetryConfig(),
	}
}

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	errorMapper  *ErrorMapper
	options      UnitOfWorkOptions
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, options UnitOfWorkOptions) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		errorMapper:  NewErrorMapper(),
		options:      options,
	}
}

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction", map[string]any{
		"isolation": u.options.Isolation.String(),
	})

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: u.options.Isolation})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		if isTransientError(err) && !strings.Contains(strings.ToLower(err.Error()), "connection") {
			return u.errorMapper.MapError(err, "commit transaction")
		}
		// The server may have applied the commit; re-running the work could apply it twice
		return fmt.Errorf("%w: commit outcome unknown", errs.ErrStoreUnavailable)
	}

	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// WithinTransaction runs fn in a transaction. A context that already carries
// a transaction joins it instead of opening a nested one
func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return RetryOnTransientError(ctx, u.options.Retry, func() error {
		return u.runOnce(ctx, fn)
	}, u.errorMapper, u.logger)
}

func (u *UnitOfWork) runOnce(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := u.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = u.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := u.Rollback(txCtx); rbErr != nil {
			u.logger.Warn("Rollback after failed unit of work returned an error", map[string]any{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	return u.Commit(txCtx)
}

// GetBusinessRepository returns a business repository in the current transaction
func (u *UnitOfWork) GetBusinessRepository(ctx context.Context) persistence.BusinessRepository {
	return repository.NewBusinessRepository(u.getDbFromContext(ctx), u.logger)
}

// GetCreditRepository returns a credit repository in the current transaction
func (u *UnitOfWork) GetCreditRepository(ctx context.Context) persistence.CreditRepository {
	return repository.NewCreditRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetCreditTransactionRepository returns a ledger repository in the current transaction
func (u *UnitOfWork) GetCreditTransactionRepository(ctx context.Context) persistence.CreditTransactionRepository {
	return repository.NewCreditTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetAutoTopUpLogRepository returns an audit log repository in the current transaction
func (u *UnitOfWork) GetAutoTopUpLogRepository(ctx context.Context) persistence.AutoTopUpLogRepository {
	return repository.NewAutoTopUpLogRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext retrieves the database instance from context
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
