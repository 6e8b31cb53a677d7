package consent

import (
	"context"
	"errors"
	"testing"
	"time"

	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// childBirthDate puts the child comfortably under the COPPA threshold.
var childBirthDate = time.Now().AddDate(-10, 0, 0)

func TestVerifyParentRequiresParent(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ChildMemberID: "child-1",
		BirthDate:     childBirthDate,
		Method:        models.VerificationKnowledge,
	})
	assert.ErrorIs(t, err, ErrParentRequired)
}

func TestVerifyParentRejectsChildOverThreshold(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      time.Now().AddDate(-14, 0, 0),
		Method:         models.VerificationKnowledge,
	})
	var vErr utils.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestVerifyParentUnknownMethod(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         "carrier_pigeon",
	})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestVerifyParentKnowledgeEnoughMatches(t *testing.T) {
	t.Parallel()
	svc, repo, _, _, _ := newTestService()

	// Three of the five fixed questions answered correctly, with case and
	// whitespace noise the comparison must tolerate.
	result, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationKnowledge,
		Answers: map[string]string{
			"child_first_name": "  JAMIE ",
			"child_last_name":  "rivera",
			"parent_email":     "Alex@example.com",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, result.Status)

	// Verification records parental consent and locks down the child account.
	granted, record, err := svc.CurrentConsent("child-1", models.ConsentCOPPAParental)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, "parent-1", record.ParentMemberID)

	account, err := repo.GetChildAccount("child-1")
	require.NoError(t, err)
	assert.True(t, account.ParentalConsentGiven)
	for feature, allowed := range account.Restrictions {
		assert.False(t, allowed, "restriction %q must default to off", feature)
	}
}

func TestVerifyParentKnowledgeTooFewMatches(t *testing.T) {
	t.Parallel()
	svc, repo, _, _, _ := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationKnowledge,
		Answers: map[string]string{
			"child_first_name": "Jamie",
			"child_last_name":  "Smith",
			"parent_email":     "wrong@example.com",
		},
	})
	require.ErrorIs(t, err, ErrVerificationFailed)

	// A failed attempt must not create consent or a child account.
	granted, _, err := svc.CurrentConsent("child-1", models.ConsentCOPPAParental)
	require.NoError(t, err)
	assert.False(t, granted)
	_, err = repo.GetChildAccount("child-1")
	assert.Error(t, err)
}

func TestVerifyParentFailedAttemptIsAudited(t *testing.T) {
	t.Parallel()
	svc, _, _, _, auditLog := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationKnowledge,
		Answers: map[string]string{
			"child_first_name": "Jamie",
			"child_last_name":  "Smith",
			"parent_email":     "wrong@example.com",
		},
	})
	require.ErrorIs(t, err, ErrVerificationFailed)

	require.Len(t, auditLog.events, 1)
	event := auditLog.events[0]
	assert.Equal(t, "coppa.verification_attempted", event.Action)
	assert.Equal(t, "parent-1", event.MemberID)
	assert.Equal(t, "child-1", event.TargetID)
	assert.Equal(t, models.VerificationFailed, event.Details["status"])
}

func TestVerifyParentErroredAttemptIsAudited(t *testing.T) {
	t.Parallel()
	svc, _, _, gateway, auditLog := newTestService()
	gateway.createErr = errors.New("processor unreachable")

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationCreditCard,
		PaymentMethod:  "pm_card_visa",
	})
	require.Error(t, err)

	require.Len(t, auditLog.events, 1)
	assert.Equal(t, "coppa.verification_attempted", auditLog.events[0].Action)
	assert.Equal(t, "error", auditLog.events[0].Details["status"])
}

func TestVerifyParentCreditCardChargeAndRefund(t *testing.T) {
	t.Parallel()
	svc, _, _, gateway, _ := newTestService()

	result, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationCreditCard,
		PaymentMethod:  "pm_card_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, result.Status)

	require.Len(t, gateway.intents, 1)
	assert.Equal(t, int64(utils.VerificationChargeCost), gateway.intents[0].Amount)
	assert.True(t, gateway.intents[0].Confirm)
	assert.Equal(t, []string{"pi_test_123"}, gateway.refunded)
}

func TestVerifyParentCreditCardRefundFailureSurfaces(t *testing.T) {
	t.Parallel()
	svc, _, _, gateway, _ := newTestService()
	gateway.refundErr = errors.New("refund rejected")

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationCreditCard,
		PaymentMethod:  "pm_card_visa",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refund failed")
}

func TestVerifyParentCreditCardRequiresPaymentMethod(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newTestService()

	_, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
		ParentMemberID: "parent-1",
		ChildMemberID:  "child-1",
		BirthDate:      childBirthDate,
		Method:         models.VerificationCreditCard,
	})
	var vErr utils.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestVerifyParentDocumentGoesToPendingReview(t *testing.T) {
	t.Parallel()
	svc, repo, _, _, _ := newTestService()

	for _, method := range []string{models.VerificationGovernmentID, models.VerificationConsentForm} {
		result, err := svc.VerifyParent(context.Background(), VerifyParentRequest{
			ParentMemberID: "parent-1",
			ChildMemberID:  "child-1",
			BirthDate:      childBirthDate,
			Method:         method,
			DocumentID:     "doc-123",
		})
		require.NoError(t, err)
		assert.Equal(t, models.VerificationPendingReview, result.Status)
		assert.Len(t, result.ReviewToken, 32, "review token should be 16 random bytes hex-encoded")
	}

	// Pending review is not consent.
	granted, _, err := svc.CurrentConsent("child-1", models.ConsentCOPPAParental)
	require.NoError(t, err)
	assert.False(t, granted)
	_, err = repo.GetChildAccount("child-1")
	assert.Error(t, err)
}
