package privacy

import (
	"fmt"

	"ptaconnect/models"
	"ptaconnect/utils"
)

// GetSettings returns a member's settings, creating the restrictive default
// row lazily on first read. A missing row is expected, not an error.
func (s *DefaultPrivacyService) GetSettings(memberID string) (*models.PrivacySettings, error) {
	settings, err := s.Repo.GetSettings(memberID)
	if err == nil {
		return settings, nil
	}
	if !utils.IsNotFound(err) {
		return nil, err
	}

	defaults := models.DefaultPrivacySettings(memberID)
	if err := s.Repo.UpsertSettings(&defaults); err != nil {
		return nil, fmt.Errorf("failed to create default privacy settings: %w", err)
	}
	return &defaults, nil
}

// UpdateSettings applies an allow-listed update. Unknown fields never reach
// this struct; the JSON binding drops them.
func (s *DefaultPrivacyService) UpdateSettings(memberID string, update SettingsUpdate) (*models.PrivacySettings, error) {
	settings, err := s.GetSettings(memberID)
	if err != nil {
		return nil, err
	}

	if update.ShowEmail != nil {
		settings.ShowEmail = *update.ShowEmail
	}
	if update.ShowPhone != nil {
		settings.ShowPhone = *update.ShowPhone
	}
	if update.ShowAddress != nil {
		settings.ShowAddress = *update.ShowAddress
	}
	if update.ShowChildren != nil {
		settings.ShowChildren = *update.ShowChildren
	}
	if update.DirectoryVisible != nil {
		settings.DirectoryVisible = *update.DirectoryVisible
	}
	if update.AllowPhotoSharing != nil {
		settings.AllowPhotoSharing = *update.AllowPhotoSharing
	}
	if update.AllowDataSharing != nil {
		settings.AllowDataSharing = *update.AllowDataSharing
	}

	if err := s.Repo.UpsertSettings(settings); err != nil {
		return nil, fmt.Errorf("failed to update privacy settings: %w", err)
	}

	s.Audit.Log(models.AuditEvent{
		Action:   "privacy.settings_updated",
		MemberID: memberID,
	})
	return settings, nil
}
