package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ValidationError marks input errors that are safe to surface to the client
// verbatim as a 400.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given safe message.
func NewValidationError(msg string) ValidationError {
	return ValidationError{Message: msg}
}

// Payment types accepted by the payment intent endpoint.
const (
	PaymentTypeMembership = "membership"
	PaymentTypeDonation   = "donation"
	PaymentTypeEventFee   = "event_fee"
)

// Amount bounds in minor currency units (cents).
const (
	MinPaymentAmount       = 100    // $1
	MaxMembershipAmount    = 10000  // $100
	MaxDonationAmount      = 100000 // $1000
	MaxEventFeeAmount      = 50000  // $500
	VerificationChargeCost = 50     // $0.50 charge-and-refund verification
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidatePaymentAmount checks a payment amount in minor units against the
// bounds for its payment type. Amounts arrive as float64 from JSON, so a
// fractional cent value is rejected outright.
func ValidatePaymentAmount(amount float64, paymentType string) error {
	if amount != float64(int64(amount)) || amount <= 0 {
		return NewValidationError("Invalid payment amount")
	}
	cents := int64(amount)
	if cents < MinPaymentAmount {
		return NewValidationError("Payment amount must be at least $1")
	}
	switch paymentType {
	case PaymentTypeMembership:
		if cents > MaxMembershipAmount {
			return NewValidationError("Payment amount cannot exceed $100")
		}
	case PaymentTypeDonation:
		if cents > MaxDonationAmount {
			return NewValidationError("Payment amount cannot exceed $1000")
		}
	case PaymentTypeEventFee:
		if cents > MaxEventFeeAmount {
			return NewValidationError("Payment amount cannot exceed $500")
		}
	default:
		return NewValidationError("Invalid payment type")
	}
	return nil
}

// ValidateEmail checks basic email shape; detailed deliverability is not our
// problem.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 || !emailPattern.MatchString(email) {
		return NewValidationError("Invalid email address")
	}
	return nil
}

// ValidateMemberID checks that an identifier is a well-formed UUID.
func ValidateMemberID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError("Invalid member ID")
	}
	return nil
}
