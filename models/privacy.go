package models

import "time"

// PrivacySettings is one row per member, created lazily with everything off.
type PrivacySettings struct {
	MemberID          string    `bson:"member_id" json:"memberId"`
	ShowEmail         bool      `bson:"show_email" json:"showEmail"`
	ShowPhone         bool      `bson:"show_phone" json:"showPhone"`
	ShowAddress       bool      `bson:"show_address" json:"showAddress"`
	ShowChildren      bool      `bson:"show_children" json:"showChildren"`
	DirectoryVisible  bool      `bson:"directory_visible" json:"directoryVisible"`
	AllowPhotoSharing bool      `bson:"allow_photo_sharing" json:"allowPhotoSharing"`
	AllowDataSharing  bool      `bson:"allow_data_sharing" json:"allowDataSharing"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}

// DefaultPrivacySettings returns the restrictive defaults applied before a
// member has made any explicit choice.
func DefaultPrivacySettings(memberID string) PrivacySettings {
	return PrivacySettings{
		MemberID:  memberID,
		UpdatedAt: time.Now(),
	}
}

// Data request kinds and statuses for export/deletion jobs.
const (
	DataRequestExport   = "export"
	DataRequestDeletion = "deletion"

	DataRequestPending    = "pending"
	DataRequestProcessing = "processing"
	DataRequestCompleted  = "completed"
	DataRequestFailed     = "failed"
)

// DataRequest tracks a privacy export or deletion job through its lifecycle.
// Status transitions are persisted so a crashed worker leaves an inspectable
// trail and the job can be retried.
type DataRequest struct {
	ID          string     `bson:"id" json:"id"`
	MemberID    string     `bson:"member_id" json:"memberId"`
	Kind        string     `bson:"kind" json:"kind"`
	Status      string     `bson:"status" json:"status"`
	Result      string     `bson:"result,omitempty" json:"result,omitempty"`
	Error       string     `bson:"error,omitempty" json:"error,omitempty"`
	RequestedAt time.Time  `bson:"requested_at" json:"requestedAt"`
	StartedAt   *time.Time `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}
