package payment

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v76"
)

// ProcessorError is a Stripe failure classified for the HTTP layer. Card
// errors are the only processor errors whose message is safe to show the
// client verbatim.
type ProcessorError struct {
	Status  int
	Message string
	cause   error
}

func (e *ProcessorError) Error() string {
	return e.Message
}

func (e *ProcessorError) Unwrap() error {
	return e.cause
}

// ClassifyStripeError maps a Stripe API error onto a status code and a safe
// message.
func ClassifyStripeError(err error) *ProcessorError {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return &ProcessorError{
			Status:  http.StatusInternalServerError,
			Message: "Payment processing failed. Please try again later.",
			cause:   err,
		}
	}

	switch stripeErr.Type {
	case stripe.ErrorTypeCard:
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Your card was declined."
		}
		return &ProcessorError{Status: http.StatusBadRequest, Message: msg, cause: err}
	case stripe.ErrorTypeInvalidRequest:
		return &ProcessorError{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment request.",
			cause:   err,
		}
	case stripe.ErrorTypeAPI:
		if stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
			return &ProcessorError{
				Status:  http.StatusTooManyRequests,
				Message: "Too many payment requests. Please try again shortly.",
				cause:   err,
			}
		}
		return &ProcessorError{
			Status:  http.StatusInternalServerError,
			Message: "Payment processing failed. Please try again later.",
			cause:   err,
		}
	default:
		// Authentication and configuration problems are ours, not the
		// client's.
		return &ProcessorError{
			Status:  http.StatusInternalServerError,
			Message: "Payment processing failed. Please try again later.",
			cause:   err,
		}
	}
}
