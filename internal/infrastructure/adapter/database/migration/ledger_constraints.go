package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

type tableConstraint struct {
	table string
	name  string
	ddl   string
}

// ledgerConstraints are the foreign keys and checks the models cannot express
var ledgerConstraints = []tableConstraint{
	{"credit_balances", "fk_credit_balances_business",
		"FOREIGN KEY (business_id) REFERENCES businesses (id) ON DELETE CASCADE"},
	{"credit_transactions", "fk_credit_transactions_business",
		"FOREIGN KEY (business_id) REFERENCES businesses (id) ON DELETE CASCADE"},
	{"auto_top_up_logs", "fk_auto_top_up_logs_business",
		"FOREIGN KEY (business_id) REFERENCES businesses (id) ON DELETE CASCADE"},
	{"top_up_locks", "fk_top_up_locks_business",
		"FOREIGN KEY (business_id) REFERENCES businesses (id) ON DELETE CASCADE"},
	{"credit_transactions", "chk_credit_transactions_type",
		"CHECK (type IN ('usage', 'purchase', 'bonus', 'trial', 'refund'))"},
	{"credit_transactions", "chk_credit_transactions_amount_sign",
		"CHECK ((type = 'usage' AND amount < 0) OR (type <> 'usage' AND amount > 0))"},
	{"credit_transactions", "chk_credit_transactions_balance_after",
		"CHECK (balance_after >= 0)"},
	{"auto_top_up_logs", "chk_auto_top_up_logs_status",
		"CHECK (status IN ('succeeded', 'failed'))"},
	{"credit_balances", "chk_credit_balances_counters",
		"CHECK (credits_used >= 0 AND credits_purchased >= 0)"},
}

// AddLedgerConstraints adds the constraints in ledgerConstraints that are not yet present
type AddLedgerConstraints struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAddLedgerConstraints creates a new migration instance
func NewAddLedgerConstraints(db *gorm.DB, logger coreport.Logger) *AddLedgerConstraints {
	return &AddLedgerConstraints{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration
func (m *AddLedgerConstraints) Run(ctx context.Context) error {
	m.logger.Info("Adding ledger constraints", nil)

	existing, err := m.existingConstraints(ctx)
	if err != nil {
		return err
	}

	added := 0
	for _, c := range ledgerConstraints {
		if existing[c.name] {
			continue
		}
		stmt := "ALTER TABLE " + c.table + " ADD CONSTRAINT " + c.name + " " + c.ddl
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			m.logger.Error("Failed to add constraint", map[string]any{
				"table":      c.table,
				"constraint": c.name,
				"error":      err.Error(),
			})
			return err
		}
		added++
	}

	m.logger.Info("Ledger constraints in place", map[string]any{"added": added})
	return nil
}

// existingConstraints returns the names of the constraints already defined on the ledger tables
func (m *AddLedgerConstraints) existingConstraints(ctx context.Context) (map[string]bool, error) {
	var names []string
	err := m.db.WithContext(ctx).Raw(`
		SELECT constraint_name
		FROM information_schema.table_constraints
		WHERE table_schema = current_schema()
		  AND table_name IN ('credit_balances', 'credit_transactions', 'auto_top_up_logs', 'top_up_locks')
	`).Scan(&names).Error
	if err != nil {
		m.logger.Error("Failed to list existing constraints", map[string]any{"error": err.Error()})
		return nil, err
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}
	return existing, nil
}
