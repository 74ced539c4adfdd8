package payment

import (
	"context"
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v82"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/payment"
)

// paymentIntentCreator is the part of the Stripe client the gateway uses
type paymentIntentCreator interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
}

// StripeGateway charges stored cards off-session through Stripe PaymentIntents
type StripeGateway struct {
	intents  paymentIntentCreator
	currency string
	logger   coreport.Logger
}

var _ payment.Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a gateway authenticated with secretKey
func NewStripeGateway(secretKey, currency string, logger coreport.Logger) *StripeGateway {
	client := stripe.NewClient(secretKey)
	return newStripeGateway(client.V1PaymentIntents, currency, logger)
}

func newStripeGateway(intents paymentIntentCreator, currency string, logger coreport.Logger) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{
		intents:  intents,
		currency: currency,
		logger:   logger,
	}
}

// ChargeOffSession creates and confirms a PaymentIntent against the stored payment method.
// Card errors and non-succeeded intents are reported in the result; transport
// failures, where Stripe may or may not have charged, are returned as errors
func (g *StripeGateway) ChargeOffSession(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(g.currency),
		Customer:      stripe.String(req.CustomerID),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		Metadata: map[string]string{
			"business_id": req.BusinessID,
			"pack_id":     req.PackID,
			"credits":     strconv.Itoa(req.Credits),
			"purpose":     "auto_top_up",
		},
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	intent, err := g.intents.Create(ctx, params)
	if err != nil {
		return g.fromError(req, err)
	}

	return g.fromIntent(req, intent), nil
}

func (g *StripeGateway) fromIntent(req payment.ChargeRequest, intent *stripe.PaymentIntent) *payment.ChargeResult {
	if intent == nil {
		return &payment.ChargeResult{Status: payment.ChargeFailed, Message: "empty payment intent"}
	}

	result := &payment.ChargeResult{ChargeID: intent.ID}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		result.Status = payment.ChargeSucceeded
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		result.Status = payment.ChargeDeclined
		if intent.LastPaymentError != nil {
			result.DeclineCode = string(intent.LastPaymentError.DeclineCode)
			result.Message = intent.LastPaymentError.Msg
		}
	default:
		// requires_action and processing cannot complete without the customer present
		result.Status = payment.ChargeFailed
		result.Message = string(intent.Status)
	}

	g.logger.Info("Stripe payment intent confirmed", map[string]any{
		"business_id":       req.BusinessID,
		"payment_intent_id": intent.ID,
		"status":            string(intent.Status),
		"amount_cents":      req.AmountCents,
	})
	return result
}

func (g *StripeGateway) fromError(req payment.ChargeRequest, err error) (*payment.ChargeResult, error) {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		g.logger.Error("Stripe request failed", map[string]any{
			"business_id": req.BusinessID,
			"error":       err.Error(),
		})
		return nil, err
	}

	result := &payment.ChargeResult{
		Status:      payment.ChargeFailed,
		DeclineCode: string(stripeErr.DeclineCode),
		Message:     stripeErr.Msg,
	}
	if stripeErr.PaymentIntent != nil {
		result.ChargeID = stripeErr.PaymentIntent.ID
	}

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		result.Status = payment.ChargeDeclined
		if result.DeclineCode == "" {
			result.DeclineCode = string(stripeErr.Code)
		}
	case stripeErr.Type == stripe.ErrorTypeAPI || stripeErr.HTTPStatusCode >= 500:
		// Stripe could not tell whether the charge went through
		g.logger.Error("Stripe returned a server error", map[string]any{
			"business_id": req.BusinessID,
			"request_id":  stripeErr.RequestID,
			"error":       stripeErr.Msg,
		})
		return result, err
	}

	g.logger.Warn("Stripe refused the charge", map[string]any{
		"business_id":  req.BusinessID,
		"type":         string(stripeErr.Type),
		"code":         string(stripeErr.Code),
		"decline_code": result.DeclineCode,
		"request_id":   stripeErr.RequestID,
	})
	return result, nil
}
