package paymentRepo

import "ptaconnect/models"

// PaymentRepository defines data access for payment rows. Stripe remains the
// source of truth for terminal status; these rows are the local mirror.
type PaymentRepository interface {
	// Create inserts a new payment row.
	Create(payment *models.Payment) error
	// GetByIntentID retrieves a payment by its Stripe intent ID.
	GetByIntentID(intentID string) (*models.Payment, error)
	// GetByMember returns all payments for a member, newest first.
	GetByMember(memberID string) ([]models.Payment, error)
	// UpdateStatusByIntentID sets the status (and failure message) for the
	// payment matching a Stripe intent ID. Missing rows are not an error;
	// webhooks can arrive for intents created elsewhere.
	UpdateStatusByIntentID(intentID, status, failureMessage string) error
}
