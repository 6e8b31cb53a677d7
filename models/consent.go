package models

import "time"

// Consent types tracked per member.
const (
	ConsentDirectoryInclusion = "directory_inclusion"
	ConsentPhotoSharing       = "photo_sharing"
	ConsentDataSharing        = "data_sharing"
	ConsentEmailUpdates       = "email_updates"
	ConsentCOPPAParental      = "coppa_parental"
)

// ConsentRecord is one append-only consent decision. Records are never
// mutated; the current state for a (member, type) pair is the newest row.
type ConsentRecord struct {
	ID             string            `bson:"id" json:"id"`
	MemberID       string            `bson:"member_id" json:"memberId"`
	ConsentType    string            `bson:"consent_type" json:"consentType"`
	Granted        bool              `bson:"granted" json:"granted"`
	ParentMemberID string            `bson:"parent_member_id,omitempty" json:"parentMemberId,omitempty"`
	ConsentVersion string            `bson:"consent_version" json:"consentVersion"`
	IPAddress      string            `bson:"ip_address,omitempty" json:"-"`
	UserAgent      string            `bson:"user_agent,omitempty" json:"-"`
	Metadata       map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"createdAt"`
}

// ChildAccount links a child member to the parent who manages their consent.
// Restrictions default to the most restrictive values and are only relaxed by
// an explicit parental decision after verification.
type ChildAccount struct {
	ChildMemberID        string          `bson:"child_member_id" json:"childMemberId"`
	ParentMemberID       string          `bson:"parent_member_id" json:"parentMemberId"`
	BirthDate            time.Time       `bson:"birth_date" json:"birthDate"`
	ParentalConsentGiven bool            `bson:"parental_consent_given" json:"parentalConsentGiven"`
	ConsentDate          *time.Time      `bson:"consent_date,omitempty" json:"consentDate,omitempty"`
	Restrictions         map[string]bool `bson:"restrictions" json:"restrictions"`
	UpdatedAt            time.Time       `bson:"updated_at" json:"updatedAt"`
}

// Parental verification methods.
const (
	VerificationCreditCard   = "credit_card"
	VerificationKnowledge    = "knowledge_based"
	VerificationGovernmentID = "government_id"
	VerificationConsentForm  = "signed_consent_form"
)

// Verification outcomes.
const (
	VerificationVerified      = "verified"
	VerificationFailed        = "failed"
	VerificationPendingReview = "pending_review"
)

// VerificationResult is the outcome of a parental identity check.
type VerificationResult struct {
	Status      string `json:"status"`
	Method      string `json:"method"`
	ReviewToken string `json:"reviewToken,omitempty"`
}
