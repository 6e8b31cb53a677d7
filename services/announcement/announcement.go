package announcement

import (
	"context"
	"fmt"
	"strings"
	"time"

	announcementRepo "ptaconnect/database/repository/announcement"
	memberRepo "ptaconnect/database/repository/member"
	"ptaconnect/models"
	"ptaconnect/services/audit"
	"ptaconnect/services/consent"
	"ptaconnect/services/notification"
	"ptaconnect/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Enqueuer hands outbound emails to the task queue.
type Enqueuer interface {
	EnqueueEmail(payload models.EmailTaskPayload) error
}

// SendRequest is the payload for creating and sending an announcement.
type SendRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AnnouncementService creates announcements and fans them out over push and
// email.
type AnnouncementService interface {
	// Send creates the announcement, pushes it to member devices and queues
	// one email per member who consented to email updates.
	Send(ctx context.Context, authorID string, req SendRequest) (*models.Announcement, error)
	// Recent lists the newest announcements.
	Recent(limit int) ([]models.Announcement, error)
}

// DefaultAnnouncementService is the production implementation.
type DefaultAnnouncementService struct {
	Repo       announcementRepo.AnnouncementRepository
	MemberRepo memberRepo.MemberRepository
	ConsentSvc consent.ConsentService
	Notifier   notification.NotificationService
	Queue      Enqueuer
	Audit      audit.Logger
	Logger     *zap.Logger
}

// Send creates the announcement and fans it out. The HTTP response does not
// wait for delivery; emails go through the task queue and push delivery is
// best-effort.
func (s *DefaultAnnouncementService) Send(ctx context.Context, authorID string, req SendRequest) (*models.Announcement, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, utils.NewValidationError("Invalid request data")
	}

	ann := &models.Announcement{
		ID:       uuid.New().String(),
		Subject:  strings.TrimSpace(req.Subject),
		Body:     req.Body,
		AuthorID: authorID,
	}
	if err := s.Repo.Create(ann); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	members, err := s.MemberRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list members for fan-out: %w", err)
	}
	queued := 0
	for _, m := range members {
		if m.Anonymized {
			continue
		}
		granted, _, err := s.ConsentSvc.CurrentConsent(m.ID, models.ConsentEmailUpdates)
		if err != nil {
			s.Logger.Warn("failed to check email consent, skipping member",
				zap.String("member_id", m.ID),
				zap.Error(err),
			)
			continue
		}
		if !granted {
			continue
		}
		if err := s.Queue.EnqueueEmail(models.EmailTaskPayload{
			To:      m.Email,
			Subject: ann.Subject,
			Body:    ann.Body,
		}); err != nil {
			s.Logger.Error("failed to enqueue announcement email",
				zap.String("member_id", m.ID),
				zap.Error(err),
			)
			continue
		}
		queued++
	}

	s.Notifier.BroadcastPush(ctx, ann.Subject, truncate(ann.Body, 140), map[string]string{
		"announcement_id": ann.ID,
	})

	now := time.Now()
	if err := s.Repo.MarkSent(ann.ID, now); err != nil {
		s.Logger.Error("failed to mark announcement sent",
			zap.String("announcement_id", ann.ID),
			zap.Error(err),
		)
	} else {
		ann.SentAt = &now
	}

	s.Audit.Log(models.AuditEvent{
		Action:   "announcement.sent",
		MemberID: authorID,
		TargetID: ann.ID,
		Details:  map[string]string{"emails_queued": fmt.Sprintf("%d", queued)},
	})
	return ann, nil
}

// Recent lists the newest announcements.
func (s *DefaultAnnouncementService) Recent(limit int) ([]models.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.GetRecent(limit)
}

// truncate shortens s to at most n runes, cutting on rune boundaries so a
// multi-byte character is never split mid-sequence.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
