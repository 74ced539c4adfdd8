package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// WithinTransaction runs fn in a transaction, committing on nil and rolling back on error.
	// Serialization failures and deadlocks re-run fn from the start
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error

	// GetBusinessRepository returns a business repository bound to the current transaction
	GetBusinessRepository(ctx context.Context) BusinessRepository

	// GetCreditRepository returns a credit repository bound to the current transaction
	GetCreditRepository(ctx context.Context) CreditRepository

	// GetCreditTransactionRepository returns a ledger repository bound to the current transaction
	GetCreditTransactionRepository(ctx context.Context) CreditTransactionRepository

	// GetAutoTopUpLogRepository returns an audit log repository bound to the current transaction
	GetAutoTopUpLogRepository(ctx context.Context) AutoTopUpLogRepository
}
