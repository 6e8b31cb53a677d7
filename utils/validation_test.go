package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePaymentAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		amount      float64
		paymentType string
		wantErr     string
	}{
		{"valid membership", 2500, PaymentTypeMembership, ""},
		{"membership at cap", 10000, PaymentTypeMembership, ""},
		{"below minimum", 50, PaymentTypeMembership, "Payment amount must be at least $1"},
		{"at minimum", 100, PaymentTypeMembership, ""},
		{"membership over cap", 15000, PaymentTypeMembership, "Payment amount cannot exceed $100"},
		{"donation over cap", 150000, PaymentTypeDonation, "Payment amount cannot exceed $1000"},
		{"event fee over cap", 60000, PaymentTypeEventFee, "Payment amount cannot exceed $500"},
		{"fractional cents", 15.5, PaymentTypeMembership, "Invalid payment amount"},
		{"zero", 0, PaymentTypeMembership, "Invalid payment amount"},
		{"negative", -100, PaymentTypeDonation, "Invalid payment amount"},
		{"unknown type", 2500, "bribe", "Invalid payment type"},
		{"large valid donation", 100000, PaymentTypeDonation, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaymentAmount(tt.amount, tt.paymentType)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			var vErr ValidationError
			assert.ErrorAs(t, err, &vErr, "amount errors must be safe to show the client")
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("parent@example.com"))
	assert.NoError(t, ValidateEmail("  padded@example.com  "))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateMemberID(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateMemberID("7f9c24e5-2b3a-4f1e-9d6c-8a5b4c3d2e1f"))
	assert.Error(t, ValidateMemberID("42"))
	assert.Error(t, ValidateMemberID(""))
	assert.Error(t, ValidateMemberID("'; DROP TABLE members;--"))
}
