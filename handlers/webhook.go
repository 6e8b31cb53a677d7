package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	paymentSvc "ptaconnect/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Stripe recommends capping webhook bodies well below any proxy limit.
const maxWebhookBodyBytes = 65536

// StripeWebhookHandler verifies and applies Stripe webhook events. Signature
// failures are 400; a local DB failure after a verified event is logged and
// acknowledged with 200 so Stripe does not retry forever — Stripe stays the
// source of truth and reconciliation catches the gap.
func StripeWebhookHandler(svc paymentSvc.PaymentService, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		sigHeader := c.GetHeader("Stripe-Signature")
		if sigHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			logger.Error("Failed to read webhook body", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}

		event, err := webhook.ConstructEvent(body, sigHeader, webhookSecret)
		if err != nil {
			logger.Warn("Webhook signature verification failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}

		intentID, failureMessage := extractIntent(event)
		if intentID == "" {
			logger.Info("Webhook event carries no payment intent",
				zap.String("type", string(event.Type)))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		handled, err := svc.ApplyWebhookEvent(string(event.Type), intentID, failureMessage)
		if err != nil {
			// Acknowledge anyway: the event is verified and Stripe's record is
			// authoritative.
			logger.Error("Failed to apply webhook event",
				zap.String("type", string(event.Type)),
				zap.String("intent_id", intentID),
				zap.Error(err))
		} else if !handled {
			logger.Info("Ignoring unhandled webhook event type",
				zap.String("type", string(event.Type)))
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// extractIntent pulls the payment intent ID and any failure message out of a
// webhook event. charge.* events reference the intent indirectly.
func extractIntent(event stripe.Event) (intentID, failureMessage string) {
	switch event.Type {
	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return "", ""
		}
		if charge.PaymentIntent != nil {
			intentID = charge.PaymentIntent.ID
		}
		return intentID, ""
	default:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return "", ""
		}
		if intent.LastPaymentError != nil {
			failureMessage = intent.LastPaymentError.Msg
		}
		return intent.ID, failureMessage
	}
}
