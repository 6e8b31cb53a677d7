package consent

import (
	"context"
	"fmt"

	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/google/uuid"
)

const currentConsentVersion = "2025-08"

var validConsentTypes = map[string]bool{
	models.ConsentDirectoryInclusion: true,
	models.ConsentPhotoSharing:       true,
	models.ConsentDataSharing:        true,
	models.ConsentEmailUpdates:       true,
	models.ConsentCOPPAParental:      true,
}

// RecordConsent appends a consent record. Records are never updated in place;
// the newest row is the current state.
func (s *DefaultConsentService) RecordConsent(ctx context.Context, req RecordRequest) (*models.ConsentRecord, error) {
	if !validConsentTypes[req.ConsentType] {
		return nil, ErrUnknownConsentType
	}
	if req.ConsentType == models.ConsentCOPPAParental && req.ParentMemberID == "" {
		return nil, ErrParentRequired
	}

	version := req.ConsentVersion
	if version == "" {
		version = currentConsentVersion
	}
	record := &models.ConsentRecord{
		ID:             uuid.New().String(),
		MemberID:       req.MemberID,
		ConsentType:    req.ConsentType,
		Granted:        req.Granted,
		ParentMemberID: req.ParentMemberID,
		ConsentVersion: version,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		Metadata:       req.Metadata,
	}
	if err := s.Repo.InsertRecord(record); err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}

	// Revoking directory inclusion hides the member from the directory in the
	// same request, not eventually.
	if req.ConsentType == models.ConsentDirectoryInclusion && !req.Granted {
		if err := s.PrivacyRepo.SetDirectoryVisible(req.MemberID, false); err != nil {
			return nil, fmt.Errorf("failed to cascade directory visibility: %w", err)
		}
	}

	s.Audit.Log(models.AuditEvent{
		Action:    "consent.recorded",
		MemberID:  req.MemberID,
		IPAddress: req.IPAddress,
		Details: map[string]string{
			"consent_type": req.ConsentType,
			"granted":      fmt.Sprintf("%t", req.Granted),
		},
	})
	return record, nil
}

// CurrentConsent returns the latest decision for a (member, type) pair.
func (s *DefaultConsentService) CurrentConsent(memberID, consentType string) (bool, *models.ConsentRecord, error) {
	record, err := s.Repo.LatestRecord(memberID, consentType)
	if err != nil {
		if utils.IsNotFound(err) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return record.Granted, record, nil
}

// ConsentHistory returns all records for a member, newest first.
func (s *DefaultConsentService) ConsentHistory(memberID string) ([]models.ConsentRecord, error) {
	return s.Repo.RecordsForMember(memberID)
}
