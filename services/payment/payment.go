package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// deriveIdempotencyKey hashes the caller-supplied request identity. Two
// retries of the same logical request produce the same key; a new requestId
// produces a new one.
func deriveIdempotencyKey(memberID, paymentType, requestID string, amount int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%s", memberID, paymentType, amount, requestID)))
	return "pta-" + hex.EncodeToString(sum[:16])
}

// CreateIntent validates the request, creates the Stripe intent and records a
// pending payment row. The processor is the source of truth: a failed local
// insert is logged but does not fail the response.
func (s *DefaultPaymentService) CreateIntent(ctx context.Context, input CreateIntentInput) (*models.PaymentIntentResponse, error) {
	if err := utils.ValidatePaymentAmount(input.Amount, input.PaymentType); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := utils.ValidateMemberID(input.MemberID); err != nil {
		return nil, err
	}
	if input.RequestID == "" {
		return nil, utils.NewValidationError("Request ID is required")
	}

	amount := int64(input.Amount)
	intent, err := s.Gateway.CreateIntent(IntentParams{
		Amount:         amount,
		Currency:       "usd",
		Description:    fmt.Sprintf("PTSA %s payment", input.PaymentType),
		ReceiptEmail:   input.Email,
		IdempotencyKey: deriveIdempotencyKey(input.MemberID, input.PaymentType, input.RequestID, amount),
		Metadata: map[string]string{
			"member_id":    input.MemberID,
			"payment_type": input.PaymentType,
		},
	})
	if err != nil {
		return nil, ClassifyStripeError(err)
	}

	row := &models.Payment{
		ID:             uuid.New().String(),
		MemberID:       input.MemberID,
		StripeIntentID: intent.ID,
		Amount:         amount,
		Currency:       "usd",
		PaymentType:    input.PaymentType,
		Status:         models.PaymentStatusPending,
	}
	if err := s.Repo.Create(row); err != nil {
		// Stripe has the intent; webhooks will reconcile. Log and move on.
		s.Logger.Error("failed to persist pending payment row",
			zap.String("intent_id", intent.ID),
			zap.Error(err),
		)
	}

	s.Audit.Log(models.AuditEvent{
		Action:    "payment.intent_created",
		MemberID:  input.MemberID,
		TargetID:  intent.ID,
		IPAddress: input.IPAddress,
		Details: map[string]string{
			"payment_type": input.PaymentType,
			"amount":       fmt.Sprintf("%d", amount),
		},
	})

	return &models.PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Status:       string(intent.Status),
	}, nil
}

// PaymentsForMember lists a member's payments.
func (s *DefaultPaymentService) PaymentsForMember(memberID string) ([]models.Payment, error) {
	return s.Repo.GetByMember(memberID)
}

// webhookStatusByEvent maps processor event types onto local statuses.
var webhookStatusByEvent = map[string]string{
	"payment_intent.succeeded":      models.PaymentStatusSucceeded,
	"payment_intent.payment_failed": models.PaymentStatusFailed,
	"payment_intent.canceled":       models.PaymentStatusCanceled,
	"charge.refunded":               models.PaymentStatusRefunded,
}

// ApplyWebhookEvent updates the local payment row for one processor event.
// The update keys on intent ID and writes an absolute status, so replays of
// the same event are idempotent.
func (s *DefaultPaymentService) ApplyWebhookEvent(eventType, intentID, failureMessage string) (bool, error) {
	status, ok := webhookStatusByEvent[eventType]
	if !ok {
		return false, nil
	}
	if err := s.Repo.UpdateStatusByIntentID(intentID, status, failureMessage); err != nil {
		return true, fmt.Errorf("failed to apply webhook event %s: %w", eventType, err)
	}

	if status == models.PaymentStatusSucceeded {
		s.Audit.Log(models.AuditEvent{
			Action:   "payment.succeeded",
			TargetID: intentID,
		})
	}
	return true, nil
}
