package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// DefaultAutoTopUpThreshold applies when a business enabled auto-top-up without a threshold
const DefaultAutoTopUpThreshold = 5

// AutoTopUpSettings is the auto-top-up configuration written by the settings UI
type AutoTopUpSettings struct {
	Enabled   bool
	Threshold *int   // nil means "use the default"
	PackID    string // empty means "use the default pack"
}

// EffectiveThreshold returns the configured threshold or the default of 5
func (s AutoTopUpSettings) EffectiveThreshold() int {
	if s.Threshold == nil {
		return DefaultAutoTopUpThreshold
	}
	return *s.Threshold
}

// EffectivePackID returns the configured pack or the default pack
func (s AutoTopUpSettings) EffectivePackID() string {
	if strings.TrimSpace(s.PackID) == "" {
		return DefaultPackID
	}
	return s.PackID
}

// Validate checks threshold and pack before the settings are stored
func (s AutoTopUpSettings) Validate() error {
	if s.Threshold != nil && *s.Threshold < 0 {
		return errs.ErrInvalidThreshold
	}
	if _, err := ResolvePack(s.EffectivePackID()); err != nil {
		return err
	}
	return nil
}

// Business is the tenant that owns a credit balance
type Business struct {
	ID                    uuid.UUID
	Name                  string
	AutoTopUp             AutoTopUpSettings
	StripeCustomerID      string
	StripePaymentMethodID string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewBusiness creates a business with auto-top-up disabled
func NewBusiness(id uuid.UUID, name string, timeProvider coreport.TimeProvider) (*Business, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidBusinessID
	}

	now := timeProvider.Now()
	return &Business{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasPaymentMethod reports whether an off-session charge can be attempted
func (b *Business) HasPaymentMethod() bool {
	return len(b.MissingPaymentFields()) == 0
}

// MissingPaymentFields lists the payment references that are not on file
func (b *Business) MissingPaymentFields() []string {
	var missing []string
	if strings.TrimSpace(b.StripeCustomerID) == "" {
		missing = append(missing, "stripe_customer_id")
	}
	if strings.TrimSpace(b.StripePaymentMethodID) == "" {
		missing = append(missing, "stripe_payment_method_id")
	}
	return missing
}

// ApplyAutoTopUpSettings validates and replaces the auto-top-up configuration
func (b *Business) ApplyAutoTopUpSettings(settings AutoTopUpSettings, timeProvider coreport.TimeProvider) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	b.AutoTopUp = settings
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// AttachPaymentMethod stores the gateway customer and default payment method references
func (b *Business) AttachPaymentMethod(customerID, paymentMethodID string, timeProvider coreport.TimeProvider) error {
	customerID = strings.TrimSpace(customerID)
	paymentMethodID = strings.TrimSpace(paymentMethodID)
	if customerID == "" || paymentMethodID == "" {
		return errs.ErrInvalidRequest
	}
	b.StripeCustomerID = customerID
	b.StripePaymentMethodID = paymentMethodID
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// ParseBusinessID parses a business ID, mapping failures to ErrInvalidBusinessID
func ParseBusinessID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.ErrInvalidBusinessID
	}
	return id, nil
}
