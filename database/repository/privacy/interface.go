package privacyRepo

import "ptaconnect/models"

// PrivacyRepository defines data access for privacy settings and
// export/deletion requests.
type PrivacyRepository interface {
	// GetSettings returns the settings row for a member, or a not-found error
	// if the member has never touched their settings.
	GetSettings(memberID string) (*models.PrivacySettings, error)
	// UpsertSettings creates or replaces the settings row.
	UpsertSettings(settings *models.PrivacySettings) error
	// SetDirectoryVisible flips only the directory_visible flag.
	SetDirectoryVisible(memberID string, visible bool) error

	// CreateDataRequest inserts a new export/deletion request row.
	CreateDataRequest(req *models.DataRequest) error
	// GetDataRequest returns a request row by ID.
	GetDataRequest(id string) (*models.DataRequest, error)
	// UpdateDataRequest persists a status transition on a request row.
	UpdateDataRequest(req *models.DataRequest) error
	// StaleProcessingRequests returns requests stuck in processing longer
	// than the given age, for the requeue sweep.
	StaleProcessingRequests(olderThanMinutes int) ([]models.DataRequest, error)
}
