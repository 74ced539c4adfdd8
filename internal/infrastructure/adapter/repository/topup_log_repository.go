package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// AutoTopUpLogRepository implements persistence.AutoTopUpLogRepository using GORM
type AutoTopUpLogRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAutoTopUpLogRepository creates a new AutoTopUpLogRepository instance
func NewAutoTopUpLogRepository(db *gorm.DB, logger coreport.Logger) *AutoTopUpLogRepository {
	return &AutoTopUpLogRepository{db: db, logger: logger}
}

// Create appends an auto-top-up audit entry
func (r *AutoTopUpLogRepository) Create(ctx context.Context, log *entity.AutoTopUpLog) error {
	m := model.AutoTopUpLog{
		ID:                 log.ID,
		BusinessID:         log.BusinessID,
		PackID:             log.PackID,
		CreditsAdded:       log.CreditsAdded,
		AmountChargedCents: log.AmountChargedCents,
		PaymentReference:   log.PaymentReference,
		Status:             string(log.Status),
		ErrorMessage:       log.ErrorMessage,
		BalanceBefore:      log.BalanceBefore,
		BalanceAfter:       log.BalanceAfter,
		CreatedAt:          log.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return storeUnavailable(r.logger, "creating auto-top-up log", err, map[string]any{
			"business_id": log.BusinessID.String(),
			"status":      string(log.Status),
		})
	}
	return nil
}

// ListByBusiness returns a page of top-up attempts, newest first
func (r *AutoTopUpLogRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error) {
	var rows []model.AutoTopUpLog
	result := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if result.Error != nil {
		return nil, storeUnavailable(r.logger, "listing auto-top-up logs", result.Error, map[string]any{
			"business_id": businessID.String(),
		})
	}

	logs := make([]*entity.AutoTopUpLog, 0, len(rows))
	for _, m := range rows {
		logs = append(logs, &entity.AutoTopUpLog{
			ID:                 m.ID,
			BusinessID:         m.BusinessID,
			PackID:             m.PackID,
			CreditsAdded:       m.CreditsAdded,
			AmountChargedCents: m.AmountChargedCents,
			PaymentReference:   m.PaymentReference,
			Status:             entity.TopUpStatus(m.Status),
			ErrorMessage:       m.ErrorMessage,
			BalanceBefore:      m.BalanceBefore,
			BalanceAfter:       m.BalanceAfter,
			CreatedAt:          m.CreatedAt,
		})
	}
	return logs, nil
}
