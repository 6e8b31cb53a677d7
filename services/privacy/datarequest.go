package privacy

import (
	"encoding/json"
	"fmt"
	"time"

	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const staleProcessingMinutes = 30

// RequestExport creates a pending export job and enqueues it. The HTTP
// response returns before the work runs; the row is the completion signal.
func (s *DefaultPrivacyService) RequestExport(memberID, ip string) (*models.DataRequest, error) {
	return s.createRequest(memberID, ip, models.DataRequestExport)
}

// RequestDeletion creates a pending deletion job and enqueues it.
func (s *DefaultPrivacyService) RequestDeletion(memberID, ip string) (*models.DataRequest, error) {
	return s.createRequest(memberID, ip, models.DataRequestDeletion)
}

func (s *DefaultPrivacyService) createRequest(memberID, ip, kind string) (*models.DataRequest, error) {
	req := &models.DataRequest{
		ID:       uuid.New().String(),
		MemberID: memberID,
		Kind:     kind,
		Status:   models.DataRequestPending,
	}
	if err := s.Repo.CreateDataRequest(req); err != nil {
		return nil, err
	}
	if err := s.Queue.EnqueueDataRequest(models.DataRequestTaskPayload{RequestID: req.ID}); err != nil {
		// The row exists; the stale sweep will pick it up if the enqueue was
		// lost for good.
		s.Logger.Error("failed to enqueue data request",
			zap.String("request_id", req.ID),
			zap.Error(err),
		)
	}

	s.Audit.Log(models.AuditEvent{
		Action:    "privacy.data_request_created",
		MemberID:  memberID,
		TargetID:  req.ID,
		IPAddress: ip,
		Details:   map[string]string{"kind": kind},
	})
	return req, nil
}

// GetDataRequest returns a request row for status polling.
func (s *DefaultPrivacyService) GetDataRequest(requestID string) (*models.DataRequest, error) {
	return s.Repo.GetDataRequest(requestID)
}

// ProcessDataRequest runs one queued job to completion, persisting every
// status transition so a crash leaves an inspectable trail.
func (s *DefaultPrivacyService) ProcessDataRequest(requestID string) error {
	req, err := s.Repo.GetDataRequest(requestID)
	if err != nil {
		return err
	}
	if req.Status == models.DataRequestCompleted {
		return nil // replayed task, already done
	}

	now := time.Now()
	req.Status = models.DataRequestProcessing
	req.StartedAt = &now
	if err := s.Repo.UpdateDataRequest(req); err != nil {
		return err
	}

	var runErr error
	switch req.Kind {
	case models.DataRequestExport:
		runErr = s.runExport(req)
	case models.DataRequestDeletion:
		runErr = s.runDeletion(req)
	default:
		runErr = fmt.Errorf("unknown data request kind: %s", req.Kind)
	}

	done := time.Now()
	req.CompletedAt = &done
	if runErr != nil {
		req.Status = models.DataRequestFailed
		req.Error = runErr.Error()
	} else {
		req.Status = models.DataRequestCompleted
	}
	if err := s.Repo.UpdateDataRequest(req); err != nil {
		return err
	}
	return runErr
}

// exportDocument is the JSON shape of a member data export.
type exportDocument struct {
	Member      *models.Member          `json:"member"`
	Settings    *models.PrivacySettings `json:"privacySettings,omitempty"`
	Consents    []models.ConsentRecord  `json:"consents"`
	Payments    []models.Payment        `json:"payments"`
	RSVPs       []models.RSVP           `json:"rsvps"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// runExport gathers everything the system holds about the member into one
// JSON document, encrypted with the PII key and stored on the request row.
func (s *DefaultPrivacyService) runExport(req *models.DataRequest) error {
	member, err := s.MemberRepo.GetByID(req.MemberID)
	if err != nil {
		return fmt.Errorf("export: failed to load member: %w", err)
	}
	consents, err := s.ConsentRepo.RecordsForMember(req.MemberID)
	if err != nil {
		return fmt.Errorf("export: failed to load consents: %w", err)
	}
	payments, err := s.PaymentRepo.GetByMember(req.MemberID)
	if err != nil {
		return fmt.Errorf("export: failed to load payments: %w", err)
	}
	rsvps, err := s.EventRepo.GetRSVPsForMember(req.MemberID)
	if err != nil {
		return fmt.Errorf("export: failed to load rsvps: %w", err)
	}

	doc := exportDocument{
		Member:      member,
		Consents:    consents,
		Payments:    payments,
		RSVPs:       rsvps,
		GeneratedAt: time.Now(),
	}
	if settings, err := s.Repo.GetSettings(req.MemberID); err == nil {
		doc.Settings = settings
	} else if !utils.IsNotFound(err) {
		return fmt.Errorf("export: failed to load privacy settings: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("export: failed to marshal document: %w", err)
	}
	sealed, err := utils.Encrypt(raw, utils.DataClassPII)
	if err != nil {
		return fmt.Errorf("export: failed to encrypt document: %w", err)
	}
	req.Result = fmt.Sprintf("%x", sealed)
	return nil
}

// runDeletion anonymizes the member row and locks down their settings.
// Payments and audit rows survive for financial record-keeping.
func (s *DefaultPrivacyService) runDeletion(req *models.DataRequest) error {
	if err := s.MemberRepo.Anonymize(req.MemberID); err != nil {
		return fmt.Errorf("deletion: failed to anonymize member: %w", err)
	}
	settings := models.DefaultPrivacySettings(req.MemberID)
	if err := s.Repo.UpsertSettings(&settings); err != nil {
		return fmt.Errorf("deletion: failed to reset privacy settings: %w", err)
	}
	return nil
}

// RequeueStale re-enqueues jobs stuck in processing longer than the cutoff.
func (s *DefaultPrivacyService) RequeueStale() error {
	stale, err := s.Repo.StaleProcessingRequests(staleProcessingMinutes)
	if err != nil {
		return err
	}
	for _, req := range stale {
		if err := s.Queue.EnqueueDataRequest(models.DataRequestTaskPayload{RequestID: req.ID}); err != nil {
			s.Logger.Error("failed to requeue stale data request",
				zap.String("request_id", req.ID),
				zap.Error(err),
			)
			continue
		}
		s.Logger.Warn("requeued stale data request", zap.String("request_id", req.ID))
	}
	return nil
}
