package handlers

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ptaconnect/models"
	paymentSvc "ptaconnect/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

// fakePaymentService records webhook applications.
type fakePaymentService struct {
	applied    []string
	applyErr   error
	notHandled bool
}

func (f *fakePaymentService) CreateIntent(context.Context, paymentSvc.CreateIntentInput) (*models.PaymentIntentResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaymentService) PaymentsForMember(string) ([]models.Payment, error) {
	return nil, nil
}

func (f *fakePaymentService) ApplyWebhookEvent(eventType, intentID, failureMessage string) (bool, error) {
	f.applied = append(f.applied, eventType+":"+intentID)
	if f.applyErr != nil {
		return false, f.applyErr
	}
	return !f.notHandled, nil
}

func signPayload(payload []byte, at time.Time) string {
	sig := webhook.ComputeSignature(at, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}

func postWebhook(handler gin.HandlerFunc, payload []byte, sigHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/webhooks/stripe", handler)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func intentEventPayload(eventType, intentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		stripe.APIVersion, eventType, intentID,
	))
}

func TestStripeWebhookMissingSignature(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	w := postWebhook(handler, intentEventPayload("payment_intent.succeeded", "pi_1"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing signature"}`, w.Body.String())
	assert.Empty(t, svc.applied)
}

func TestStripeWebhookInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.succeeded", "pi_1")
	w := postWebhook(handler, payload, "t=123,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
	assert.Empty(t, svc.applied)
}

func TestStripeWebhookTamperedPayload(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.succeeded", "pi_1")
	sig := signPayload(payload, time.Now())
	tampered := intentEventPayload("payment_intent.succeeded", "pi_evil")

	w := postWebhook(handler, tampered, sig)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
	assert.Empty(t, svc.applied)
}

func TestStripeWebhookValidEventApplied(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.succeeded", "pi_1")
	w := postWebhook(handler, payload, signPayload(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.applied, 1)
	assert.Equal(t, "payment_intent.succeeded:pi_1", svc.applied[0])
}

func TestStripeWebhookDBFailureStillAcknowledged(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{applyErr: errors.New("db down")}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.succeeded", "pi_1")
	w := postWebhook(handler, payload, signPayload(payload, time.Now()))

	// Stripe stays the source of truth; never make it retry over our DB.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStripeWebhookUnknownTypeAcknowledged(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{notHandled: true}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.amount_capturable_updated", "pi_1")
	w := postWebhook(handler, payload, signPayload(payload, time.Now()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStripeWebhookStaleTimestampRejected(t *testing.T) {
	t.Parallel()
	svc := &fakePaymentService{}
	handler := StripeWebhookHandler(svc, testWebhookSecret)

	payload := intentEventPayload("payment_intent.succeeded", "pi_1")
	w := postWebhook(handler, payload, signPayload(payload, time.Now().Add(-time.Hour)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.applied)
}
