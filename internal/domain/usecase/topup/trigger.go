package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/metrics"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/payment"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// Metric outcomes beyond the TopUpOutcome values
const (
	attemptDeclined      = "declined"
	attemptConfiguration = "configuration_error"
	attemptInvalidPack   = "invalid_pack"
	attemptStoreFailure  = "store_error"
)

// Config holds the timing settings of the trigger
type Config struct {
	LockTTL       time.Duration
	ChargeTimeout time.Duration
	ListLimit     int
}

// DefaultConfig returns the trigger defaults
func DefaultConfig() Config {
	return Config{
		LockTTL:       60 * time.Second,
		ChargeTimeout: 20 * time.Second,
		ListLimit:     50,
	}
}

// Trigger decides whether a business needs an auto-top-up and executes it
type Trigger struct {
	uow          persistence.UnitOfWork
	locks        persistence.TopUpLockRepository
	gateway      payment.Gateway
	recorder     metrics.Recorder
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewTrigger creates a new auto-top-up trigger
func NewTrigger(
	uow persistence.UnitOfWork,
	locks persistence.TopUpLockRepository,
	gateway payment.Gateway,
	recorder metrics.Recorder,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Trigger {
	defaults := DefaultConfig()
	if config.LockTTL <= 0 {
		config.LockTTL = defaults.LockTTL
	}
	if config.ChargeTimeout <= 0 {
		config.ChargeTimeout = defaults.ChargeTimeout
	}
	if config.ListLimit <= 0 {
		config.ListLimit = defaults.ListLimit
	}
	// The lock must outlive the charge or a second process could start another one
	if config.LockTTL < 2*config.ChargeTimeout {
		config.LockTTL = 2 * config.ChargeTimeout
	}

	return &Trigger{
		uow:          uow,
		locks:        locks,
		gateway:      gateway,
		recorder:     recorder,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
	}
}

// Evaluate runs one pass of the auto-top-up state machine for the business
func (t *Trigger) Evaluate(ctx context.Context, businessID uuid.UUID) (*portuse.TopUpResult, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}

	business, err := t.uow.GetBusinessRepository(ctx).GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	settings := business.AutoTopUp
	if !settings.Enabled {
		return t.finish(&portuse.TopUpResult{Outcome: portuse.TopUpDisabled}, string(portuse.TopUpDisabled)), nil
	}

	if missing := business.MissingPaymentFields(); len(missing) > 0 {
		cfgErr := errs.NewConfigurationError(businessID.String(), missing...)
		var detailed *errs.ConfigurationError
		if errors.As(cfgErr, &detailed) {
			t.logger.Error("Auto-top-up enabled without a payment method", detailed.LogFields())
		}
		return t.finish(&portuse.TopUpResult{Outcome: portuse.TopUpFailed, Error: cfgErr.Error()}, attemptConfiguration), cfgErr
	}

	balance, err := t.uow.GetCreditRepository(ctx).GetBalance(ctx, businessID)
	if err != nil {
		return nil, err
	}

	threshold := settings.EffectiveThreshold()
	if !balance.BelowThreshold(threshold) {
		return t.finish(&portuse.TopUpResult{
			Outcome:       portuse.TopUpAboveThreshold,
			BalanceBefore: balance.CreditsRemaining,
			BalanceAfter:  balance.CreditsRemaining,
		}, string(portuse.TopUpAboveThreshold)), nil
	}

	pack, err := entity.ResolvePack(settings.EffectivePackID())
	if err != nil {
		t.logger.Error("Auto-top-up configured with an unknown pack", map[string]any{
			"business_id": businessID.String(),
			"pack_id":     settings.EffectivePackID(),
		})
		return t.finish(&portuse.TopUpResult{
			Outcome:       portuse.TopUpFailed,
			PackID:        settings.EffectivePackID(),
			BalanceBefore: balance.CreditsRemaining,
			BalanceAfter:  balance.CreditsRemaining,
			Error:         err.Error(),
		}, attemptInvalidPack), err
	}

	return t.chargeUnderLock(ctx, business, pack, threshold)
}

// chargeUnderLock serializes charges per business across processes
func (t *Trigger) chargeUnderLock(
	ctx context.Context,
	business *entity.Business,
	pack entity.CreditPack,
	threshold int,
) (*portuse.TopUpResult, error) {
	if err := t.locks.AcquireLock(ctx, business.ID, t.config.LockTTL); err != nil {
		if errors.Is(err, errs.ErrTopUpInProgress) {
			t.logger.Debug("Auto-top-up already running for business", map[string]any{
				"business_id": business.ID.String(),
			})
			return t.finish(&portuse.TopUpResult{Outcome: portuse.TopUpInProgress, PackID: pack.ID}, string(portuse.TopUpInProgress)), nil
		}
		return nil, err
	}
	defer func() {
		if err := t.locks.ReleaseLock(context.WithoutCancel(ctx), business.ID); err != nil {
			t.logger.Warn("Failed to release top-up lock", map[string]any{
				"business_id": business.ID.String(),
				"error":       err.Error(),
			})
		}
	}()

	// Another process may have credited the account while we waited for the lock
	balance, err := t.uow.GetCreditRepository(ctx).GetBalance(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	if !balance.BelowThreshold(threshold) {
		return t.finish(&portuse.TopUpResult{
			Outcome:       portuse.TopUpAboveThreshold,
			BalanceBefore: balance.CreditsRemaining,
			BalanceAfter:  balance.CreditsRemaining,
		}, string(portuse.TopUpAboveThreshold)), nil
	}

	charge, chargeErr := t.charge(ctx, business, pack)
	if chargeErr != nil {
		return t.recordFailure(ctx, business, pack, balance.CreditsRemaining, charge, chargeErr)
	}

	return t.credit(ctx, business, pack, charge)
}

// charge calls the gateway under the configured timeout and maps every
// non-succeeded outcome to a PaymentError
func (t *Trigger) charge(
	ctx context.Context,
	business *entity.Business,
	pack entity.CreditPack,
) (*payment.ChargeResult, error) {
	chargeCtx, cancel := t.timeProvider.WithTimeout(ctx, coreport.Duration(t.config.ChargeTimeout))
	defer cancel()

	req := payment.ChargeRequest{
		BusinessID:      business.ID.String(),
		CustomerID:      business.StripeCustomerID,
		PaymentMethodID: business.StripePaymentMethodID,
		PackID:          pack.ID,
		Credits:         pack.Credits,
		AmountCents:     pack.PriceInCents(),
		IdempotencyKey:  fmt.Sprintf("topup-%s-%s", business.ID, uuid.New()),
		Description:     fmt.Sprintf("Auto top-up: %d credits (%s)", pack.Credits, pack.ID),
	}

	t.logger.Info("Charging stored payment method for auto-top-up", map[string]any{
		"business_id":  req.BusinessID,
		"pack_id":      pack.ID,
		"amount_cents": req.AmountCents,
	})

	result, err := t.gateway.ChargeOffSession(chargeCtx, req)
	if err != nil {
		detail := err.Error()
		if errors.Is(chargeCtx.Err(), context.DeadlineExceeded) {
			detail = fmt.Sprintf("charge timed out after %s", t.config.ChargeTimeout)
		}
		return result, errs.NewPaymentError(req.BusinessID, pack.ID, string(payment.ChargeFailed), chargeID(result), detail, errs.ErrPaymentFailed)
	}
	if result == nil {
		return nil, errs.NewPaymentError(req.BusinessID, pack.ID, string(payment.ChargeFailed), "", "empty gateway response", errs.ErrPaymentFailed)
	}

	switch result.Status {
	case payment.ChargeSucceeded:
		return result, nil
	case payment.ChargeDeclined:
		return result, errs.NewPaymentError(req.BusinessID, pack.ID, string(result.Status), result.ChargeID, declineDetail(result), errs.ErrPaymentDeclined)
	default:
		return result, errs.NewPaymentError(req.BusinessID, pack.ID, string(result.Status), result.ChargeID, result.Message, errs.ErrPaymentFailed)
	}
}

// recordFailure appends the failed Auto-Top-Up Log entry; the balance is untouched
func (t *Trigger) recordFailure(
	ctx context.Context,
	business *entity.Business,
	pack entity.CreditPack,
	balance int,
	charge *payment.ChargeResult,
	chargeErr error,
) (*portuse.TopUpResult, error) {
	var paymentErr *errs.PaymentError
	detail := chargeErr.Error()
	if errors.As(chargeErr, &paymentErr) {
		t.logger.Warn("Auto-top-up charge did not succeed", paymentErr.LogFields())
		detail = paymentErr.Status
		if paymentErr.Detail != "" {
			detail += ": " + paymentErr.Detail
		}
	}

	entry := entity.NewFailedTopUpLog(business.ID, pack, chargeID(charge), detail, balance, t.timeProvider)
	if err := t.uow.GetAutoTopUpLogRepository(ctx).Create(ctx, entry); err != nil {
		t.logger.Error("Failed to write auto-top-up log", map[string]any{
			"business_id": business.ID.String(),
			"status":      string(entity.TopUpFailed),
			"error":       err.Error(),
		})
	}

	outcome := string(payment.ChargeFailed)
	if errors.Is(chargeErr, errs.ErrPaymentDeclined) {
		outcome = attemptDeclined
	}

	return t.finish(&portuse.TopUpResult{
		Outcome:       portuse.TopUpFailed,
		PackID:        pack.ID,
		BalanceBefore: balance,
		BalanceAfter:  balance,
		ChargeID:      chargeID(charge),
		Error:         detail,
	}, outcome), chargeErr
}

// credit applies a succeeded charge: balance increment, purchase transaction and
// succeeded log are committed together
func (t *Trigger) credit(
	ctx context.Context,
	business *entity.Business,
	pack entity.CreditPack,
	charge *payment.ChargeResult,
) (*portuse.TopUpResult, error) {
	result := &portuse.TopUpResult{
		PackID:   pack.ID,
		ChargeID: charge.ChargeID,
	}

	err := t.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		after, err := t.uow.GetCreditRepository(txCtx).AddPurchased(txCtx, business.ID, pack.Credits)
		if err != nil {
			return err
		}
		before := after.CreditsRemaining - pack.Credits

		tx, err := entity.NewCreditingTransaction(business.ID, entity.TransactionPurchase, pack.Credits, after.CreditsRemaining,
			entity.CreditTransactionParams{
				Description:      fmt.Sprintf("Auto top-up: %d credits (%s)", pack.Credits, pack.ID),
				PaymentReference: charge.ChargeID,
			}, t.timeProvider)
		if err != nil {
			return err
		}
		if err := t.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, tx); err != nil {
			return err
		}

		entry := entity.NewSucceededTopUpLog(business.ID, pack, charge.ChargeID, before, after.CreditsRemaining, t.timeProvider)
		if err := t.uow.GetAutoTopUpLogRepository(txCtx).Create(txCtx, entry); err != nil {
			return err
		}

		result.BalanceBefore = before
		result.BalanceAfter = after.CreditsRemaining
		return nil
	})
	if err != nil {
		// The card was charged but the credits were not recorded; support must reconcile
		t.logger.Error("Auto-top-up charged but crediting failed", map[string]any{
			"business_id": business.ID.String(),
			"pack_id":     pack.ID,
			"charge_id":   charge.ChargeID,
			"error":       err.Error(),
		})
		result.Outcome = portuse.TopUpFailed
		result.Error = err.Error()
		return t.finish(result, attemptStoreFailure), err
	}

	result.Outcome = portuse.TopUpCredited
	result.CreditsAdded = pack.Credits
	t.recorder.CreditsPurchased(pack.Credits)
	t.logger.Info("Auto-top-up credited", map[string]any{
		"business_id":    business.ID.String(),
		"pack_id":        pack.ID,
		"credits_added":  pack.Credits,
		"balance_before": result.BalanceBefore,
		"balance_after":  result.BalanceAfter,
		"charge_id":      charge.ChargeID,
	})

	return t.finish(result, string(portuse.TopUpCredited)), nil
}

// ListLogs returns the auto-top-up audit log of a business newest first
func (t *Trigger) ListLogs(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error) {
	if businessID == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}
	if limit <= 0 {
		limit = t.config.ListLimit
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := t.uow.GetBusinessRepository(ctx).GetByID(ctx, businessID); err != nil {
		return nil, err
	}
	return t.uow.GetAutoTopUpLogRepository(ctx).ListByBusiness(ctx, businessID, limit, offset)
}

func (t *Trigger) finish(result *portuse.TopUpResult, metricOutcome string) *portuse.TopUpResult {
	t.recorder.TopUpAttempt(metricOutcome)
	return result
}

func chargeID(result *payment.ChargeResult) string {
	if result == nil {
		return ""
	}
	return result.ChargeID
}

func declineDetail(result *payment.ChargeResult) string {
	switch {
	case result.DeclineCode != "" && result.Message != "":
		return result.DeclineCode + " (" + result.Message + ")"
	case result.DeclineCode != "":
		return result.DeclineCode
	default:
		return result.Message
	}
}
