package payment

import (
	"context"

	paymentRepo "ptaconnect/database/repository/payment"
	"ptaconnect/models"
	"ptaconnect/services/audit"

	"go.uber.org/zap"
)

// CreateIntentInput is the validated service-level request for a new intent.
type CreateIntentInput struct {
	MemberID    string
	Email       string
	Amount      float64
	PaymentType string
	// RequestID is the caller-supplied idempotency token. The key sent to
	// Stripe is derived only from request identity, never from a timestamp,
	// so a client retry lands on the same intent.
	RequestID string
	IPAddress string
}

// PaymentService creates intents and reconciles webhook events.
type PaymentService interface {
	// CreateIntent validates the request, creates a Stripe payment intent
	// and records a pending payment row best-effort.
	CreateIntent(ctx context.Context, input CreateIntentInput) (*models.PaymentIntentResponse, error)
	// PaymentsForMember lists a member's payments.
	PaymentsForMember(memberID string) ([]models.Payment, error)
	// ApplyWebhookEvent updates the local payment row for one processor
	// event. Unknown event types return handled=false and no error.
	ApplyWebhookEvent(eventType, intentID, failureMessage string) (handled bool, err error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Repo    paymentRepo.PaymentRepository
	Gateway Gateway
	Audit   audit.Logger
	Logger  *zap.Logger
}
