package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// IntentParams is everything needed to create one payment intent.
type IntentParams struct {
	Amount         int64
	Currency       string
	Description    string
	ReceiptEmail   string
	IdempotencyKey string
	// PaymentMethod plus Confirm are used by the charge-and-refund parental
	// verification, which charges synchronously.
	PaymentMethod string
	Confirm       bool
	Metadata      map[string]string
}

// Gateway wraps the hosted payment API. A narrow interface keeps Stripe out
// of service logic and lets tests substitute a fake.
type Gateway interface {
	// CreateIntent creates a payment intent.
	CreateIntent(params IntentParams) (*stripe.PaymentIntent, error)
	// RefundIntent refunds a payment intent in full.
	RefundIntent(intentID string) (*stripe.Refund, error)
}

// StripeGateway is the production Gateway over stripe-go.
type StripeGateway struct{}

// NewStripeGateway returns the production gateway. stripe.Key must already be
// set from config.
func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

// CreateIntent creates a payment intent via the Stripe API.
func (g *StripeGateway) CreateIntent(params IntentParams) (*stripe.PaymentIntent, error) {
	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
	}
	if params.Description != "" {
		piParams.Description = stripe.String(params.Description)
	}
	if params.ReceiptEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.ReceiptEmail)
	}
	if params.PaymentMethod != "" {
		piParams.PaymentMethod = stripe.String(params.PaymentMethod)
	}
	if params.Confirm {
		piParams.Confirm = stripe.Bool(true)
		piParams.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		}
	}
	if params.IdempotencyKey != "" {
		piParams.SetIdempotencyKey(params.IdempotencyKey)
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent creation failed: %w", err)
	}
	return intent, nil
}

// RefundIntent refunds a payment intent in full.
func (g *StripeGateway) RefundIntent(intentID string) (*stripe.Refund, error) {
	r, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	})
	if err != nil {
		return nil, fmt.Errorf("stripe refund failed: %w", err)
	}
	return r, nil
}
