package consent

import (
	"context"
	"time"

	consentRepo "ptaconnect/database/repository/consent"
	memberRepo "ptaconnect/database/repository/member"
	privacyRepo "ptaconnect/database/repository/privacy"
	"ptaconnect/models"
	"ptaconnect/services/audit"
	"ptaconnect/services/payment"
)

// RecordRequest carries one consent decision.
type RecordRequest struct {
	MemberID       string            `json:"memberId"`
	ConsentType    string            `json:"consentType"`
	Granted        bool              `json:"granted"`
	ParentMemberID string            `json:"parentMemberId,omitempty"`
	ConsentVersion string            `json:"consentVersion,omitempty"`
	IPAddress      string            `json:"-"`
	UserAgent      string            `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// VerifyParentRequest carries a parental identity verification attempt.
type VerifyParentRequest struct {
	ParentMemberID string            `json:"parentMemberId"`
	ChildMemberID  string            `json:"childMemberId"`
	BirthDate      time.Time         `json:"birthDate"`
	Method         string            `json:"method"`
	PaymentMethod  string            `json:"paymentMethod,omitempty"` // credit_card only
	Answers        map[string]string `json:"answers,omitempty"`       // knowledge_based only
	DocumentID     string            `json:"documentId,omitempty"`    // document methods only
	IPAddress      string            `json:"-"`
	UserAgent      string            `json:"-"`
}

// ConsentService manages consent records, the COPPA age gate, and parental
// verification.
type ConsentService interface {
	// RecordConsent appends a consent record and applies any side effects
	// (the directory_inclusion revocation cascade).
	RecordConsent(ctx context.Context, req RecordRequest) (*models.ConsentRecord, error)
	// CurrentConsent returns the latest decision for a (member, type) pair;
	// granted=false with no record means nothing is on file.
	CurrentConsent(memberID, consentType string) (granted bool, record *models.ConsentRecord, err error)
	// ConsentHistory returns all records for a member, newest first.
	ConsentHistory(memberID string) ([]models.ConsentRecord, error)
	// VerifyParent runs one parental identity verification strategy and, on
	// success, records coppa_parental consent and locks down the child
	// account.
	VerifyParent(ctx context.Context, req VerifyParentRequest) (*models.VerificationResult, error)
}

// DefaultConsentService is the production implementation.
type DefaultConsentService struct {
	Repo        consentRepo.ConsentRepository
	PrivacyRepo privacyRepo.PrivacyRepository
	MemberRepo  memberRepo.MemberRepository
	Gateway     payment.Gateway
	Audit       audit.Logger
}
