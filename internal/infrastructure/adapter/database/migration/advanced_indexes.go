package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and storage settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

var ledgerIndexes = []struct {
	name string
	ddl  string
}{
	// Ledger and audit pages are read newest first per business
	{"idx_credit_transactions_business_created", `
		CREATE INDEX IF NOT EXISTS idx_credit_transactions_business_created
		ON credit_transactions (business_id, created_at DESC, id DESC)`},
	// A retried deduction carries the key of its first attempt
	{"idx_credit_transactions_idempotency", `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_credit_transactions_idempotency
		ON credit_transactions (business_id, idempotency_key)
		WHERE idempotency_key IS NOT NULL`},
	{"idx_credit_transactions_created_at_brin", `
		CREATE INDEX IF NOT EXISTS idx_credit_transactions_created_at_brin
		ON credit_transactions USING BRIN (created_at)
		WITH (pages_per_range = 32)`},
	{"idx_auto_top_up_logs_business_created", `
		CREATE INDEX IF NOT EXISTS idx_auto_top_up_logs_business_created
		ON auto_top_up_logs (business_id, created_at DESC, id DESC)`},
	// Reconciliation looks up failed attempts
	{"idx_auto_top_up_logs_failed", `
		CREATE INDEX IF NOT EXISTS idx_auto_top_up_logs_failed
		ON auto_top_up_logs (created_at)
		WHERE status = 'failed'`},
	{"idx_top_up_locks_expires_at", `
		CREATE INDEX IF NOT EXISTS idx_top_up_locks_expires_at
		ON top_up_locks (expires_at)`},
}

// CreateAdvancedIndexes creates the ledger indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating ledger indexes", nil)

	for _, idx := range ledgerIndexes {
		if err := m.db.WithContext(ctx).Exec(idx.ddl).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Ledger indexes created successfully", map[string]any{"count": len(ledgerIndexes)})
	return nil
}

// CreatePerformanceTweaks applies storage settings. Failures are logged and ignored
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	tweaks := []struct {
		name string
		sql  string
	}{
		// Balance rows are rewritten on every deduction; room on the page keeps updates HOT
		{"credit_balances fillfactor", `ALTER TABLE credit_balances SET (fillfactor = 70)`},
		{"top_up_locks fillfactor", `ALTER TABLE top_up_locks SET (fillfactor = 70)`},
		{"credit_transactions business_id statistics", `ALTER TABLE credit_transactions ALTER COLUMN business_id SET STATISTICS 1000`},
	}

	for _, tweak := range tweaks {
		if err := m.db.WithContext(ctx).Exec(tweak.sql).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"tweak": tweak.name,
				"error": err.Error(),
			})
		}
	}

	m.logger.Info("PostgreSQL performance tweaks applied", nil)
	return nil
}
