package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// UpdateAutoTopUp validates and stores the auto-top-up settings of a business
func (u *BusinessUseCase) UpdateAutoTopUp(ctx context.Context, id uuid.UUID, update portuse.AutoTopUpUpdate) (*entity.Business, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}

	repo := u.uow.GetBusinessRepository(ctx)
	business, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settings := entity.AutoTopUpSettings{
		Enabled:   update.Enabled,
		Threshold: update.Threshold,
		PackID:    update.PackID,
	}
	if err := business.ApplyAutoTopUpSettings(settings, u.timeProvider); err != nil {
		return nil, err
	}

	if err := repo.UpdateAutoTopUpSettings(ctx, business); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"business_id": id.String(),
		"enabled":     settings.Enabled,
		"threshold":   settings.EffectiveThreshold(),
		"pack_id":     settings.EffectivePackID(),
	}
	if settings.Enabled && !business.HasPaymentMethod() {
		fields["missing"] = business.MissingPaymentFields()
		u.logger.Warn("Auto-top-up enabled before a payment method was attached", fields)
	} else {
		u.logger.Info("Auto-top-up settings updated", fields)
	}

	return business, nil
}

// AttachPaymentMethod stores the gateway customer and payment method of a business
func (u *BusinessUseCase) AttachPaymentMethod(ctx context.Context, id uuid.UUID, customerID, paymentMethodID string) (*entity.Business, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}

	repo := u.uow.GetBusinessRepository(ctx)
	business, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := business.AttachPaymentMethod(customerID, paymentMethodID, u.timeProvider); err != nil {
		return nil, err
	}

	if err := repo.AttachPaymentMethod(ctx, business); err != nil {
		return nil, err
	}

	u.logger.Info("Payment method attached", map[string]any{
		"business_id": id.String(),
		"customer_id": business.StripeCustomerID,
	})

	return business, nil
}
