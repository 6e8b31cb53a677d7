package privacy

import (
	consentRepo "ptaconnect/database/repository/consent"
	eventRepo "ptaconnect/database/repository/event"
	memberRepo "ptaconnect/database/repository/member"
	paymentRepo "ptaconnect/database/repository/payment"
	privacyRepo "ptaconnect/database/repository/privacy"
	"ptaconnect/models"
	"ptaconnect/services/audit"

	"go.uber.org/zap"
)

// Enqueuer hands a data-request job to the task queue. Implemented over
// asynq; an interface here keeps the queue out of service logic and lets
// tests substitute a fake.
type Enqueuer interface {
	EnqueueDataRequest(payload models.DataRequestTaskPayload) error
}

// SettingsUpdate is the allow-listed set of mutable privacy fields. Pointer
// fields distinguish "not sent" from "set to false".
type SettingsUpdate struct {
	ShowEmail         *bool `json:"showEmail,omitempty"`
	ShowPhone         *bool `json:"showPhone,omitempty"`
	ShowAddress       *bool `json:"showAddress,omitempty"`
	ShowChildren      *bool `json:"showChildren,omitempty"`
	DirectoryVisible  *bool `json:"directoryVisible,omitempty"`
	AllowPhotoSharing *bool `json:"allowPhotoSharing,omitempty"`
	AllowDataSharing  *bool `json:"allowDataSharing,omitempty"`
}

// PrivacyService manages privacy settings and export/deletion requests.
type PrivacyService interface {
	// GetSettings returns a member's settings, creating the restrictive
	// default row lazily on first read.
	GetSettings(memberID string) (*models.PrivacySettings, error)
	// UpdateSettings applies an allow-listed update.
	UpdateSettings(memberID string, update SettingsUpdate) (*models.PrivacySettings, error)
	// RequestExport creates a pending export job and enqueues it.
	RequestExport(memberID, ip string) (*models.DataRequest, error)
	// RequestDeletion creates a pending deletion job and enqueues it.
	RequestDeletion(memberID, ip string) (*models.DataRequest, error)
	// GetDataRequest returns a request row, for status polling.
	GetDataRequest(requestID string) (*models.DataRequest, error)
	// ProcessDataRequest runs one queued job to completion. Called by the
	// task worker, never from a request handler.
	ProcessDataRequest(requestID string) error
	// RequeueStale re-enqueues jobs stuck in processing, e.g. after a crash.
	RequeueStale() error
}

// DefaultPrivacyService is the production implementation.
type DefaultPrivacyService struct {
	Repo        privacyRepo.PrivacyRepository
	MemberRepo  memberRepo.MemberRepository
	ConsentRepo consentRepo.ConsentRepository
	PaymentRepo paymentRepo.PaymentRepository
	EventRepo   eventRepo.EventRepository
	Queue       Enqueuer
	Audit       audit.Logger
	Logger      *zap.Logger
}
