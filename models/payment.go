package models

import "time"

// Payment statuses. Stripe is the source of truth for terminal states; rows
// here are reconciled from webhooks.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
	PaymentStatusRefunded  = "refunded"
)

// Payment mirrors a Stripe payment intent for a member.
type Payment struct {
	ID             string    `bson:"id" json:"id"`
	MemberID       string    `bson:"member_id" json:"memberId"`
	StripeIntentID string    `bson:"stripe_intent_id" json:"stripeIntentId"`
	Amount         int64     `bson:"amount" json:"amount"` // minor units
	Currency       string    `bson:"currency" json:"currency"`
	PaymentType    string    `bson:"payment_type" json:"paymentType"`
	Status         string    `bson:"status" json:"status"`
	FailureMessage string    `bson:"failure_message,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// PaymentIntentRequest is the payload for creating a payment intent.
type PaymentIntentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"paymentType"`
	Email       string  `json:"email"`
	RequestID   string  `json:"requestId"`
}

// PaymentIntentResponse carries the client secret the frontend needs to
// confirm the intent.
type PaymentIntentResponse struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}
