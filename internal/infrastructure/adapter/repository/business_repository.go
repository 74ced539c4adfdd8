package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/model"
)

// BusinessRepository implements persistence.BusinessRepository using GORM
type BusinessRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBusinessRepository creates a new BusinessRepository instance
func NewBusinessRepository(db *gorm.DB, logger coreport.Logger) *BusinessRepository {
	return &BusinessRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func businessToModel(b *entity.Business) model.Business {
	return model.Business{
		ID:                    b.ID,
		Name:                  b.Name,
		AutoTopUpEnabled:      b.AutoTopUp.Enabled,
		AutoTopUpThreshold:    b.AutoTopUp.Threshold,
		AutoTopUpPackID:       b.AutoTopUp.PackID,
		StripeCustomerID:      b.StripeCustomerID,
		StripePaymentMethodID: b.StripePaymentMethodID,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func businessToEntity(m *model.Business) *entity.Business {
	return &entity.Business{
		ID:   m.ID,
		Name: m.Name,
		AutoTopUp: entity.AutoTopUpSettings{
			Enabled:   m.AutoTopUpEnabled,
			Threshold: m.AutoTopUpThreshold,
			PackID:    m.AutoTopUpPackID,
		},
		StripeCustomerID:      m.StripeCustomerID,
		StripePaymentMethodID: m.StripePaymentMethodID,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// GetByID retrieves a business by ID
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	var m model.Business
	result := r.db.WithContext(ctx).Where("id = ?", id).Take(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBusinessNotFound
		}
		return nil, storeUnavailable(r.logger, "getting business", result.Error, map[string]any{
			"business_id": id.String(),
		})
	}

	return businessToEntity(&m), nil
}

// Create inserts a new business
func (r *BusinessRepository) Create(ctx context.Context, business *entity.Business) error {
	m := businessToModel(business)
	result := r.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate business", map[string]any{
				"business_id": business.ID.String(),
			})
			return errs.ErrDuplicateBusiness
		}
		return storeUnavailable(r.logger, "creating business", result.Error, map[string]any{
			"business_id": business.ID.String(),
		})
	}

	r.logger.Debug("Business created", map[string]any{
		"business_id": business.ID.String(),
	})
	return nil
}

// UpdateAutoTopUpSettings persists the auto-top-up configuration of a business
func (r *BusinessRepository) UpdateAutoTopUpSettings(ctx context.Context, business *entity.Business) error {
	return r.update(ctx, "updating auto-top-up settings", business.ID, map[string]any{
		"auto_top_up_enabled":   business.AutoTopUp.Enabled,
		"auto_top_up_threshold": business.AutoTopUp.Threshold,
		"auto_top_up_pack_id":   business.AutoTopUp.PackID,
		"updated_at":            business.UpdatedAt,
	})
}

// AttachPaymentMethod persists the stored customer and payment method of a business
func (r *BusinessRepository) AttachPaymentMethod(ctx context.Context, business *entity.Business) error {
	return r.update(ctx, "attaching payment method", business.ID, map[string]any{
		"stripe_customer_id":       business.StripeCustomerID,
		"stripe_payment_method_id": business.StripePaymentMethodID,
		"updated_at":               business.UpdatedAt,
	})
}

func (r *BusinessRepository) update(ctx context.Context, operation string, id uuid.UUID, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&model.Business{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return storeUnavailable(r.logger, operation, result.Error, map[string]any{
			"business_id": id.String(),
		})
	}
	if result.RowsAffected == 0 {
		return errs.ErrBusinessNotFound
	}
	return nil
}
