package notification

import (
	"context"
	"fmt"

	memberRepo "ptaconnect/database/repository/member"
	"ptaconnect/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes to members.
type NotificationService interface {
	// SendMemberPush sends a push to every registered device of one member.
	SendMemberPush(ctx context.Context, memberID, title, body string, data map[string]string) error
	// BroadcastPush sends a push to every device of every member. Per-device
	// failures are logged and skipped.
	BroadcastPush(ctx context.Context, title, body string, data map[string]string)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	MemberRepo memberRepo.MemberRepository
	Logger     *zap.Logger
}

// NewDefaultNotificationService builds the FCM-backed service.
func NewDefaultNotificationService(repo memberRepo.MemberRepository, logger *zap.Logger) (*DefaultNotificationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification service initialization error: member repository is nil")
	}
	return &DefaultNotificationService{MemberRepo: repo, Logger: logger}, nil
}

// SendMemberPush sends a push to every registered device of one member.
func (s *DefaultNotificationService) SendMemberPush(ctx context.Context, memberID, title, body string, data map[string]string) error {
	m, err := s.MemberRepo.GetByID(memberID)
	if err != nil {
		return fmt.Errorf("SendMemberPush: could not find member %s: %w", memberID, err)
	}
	if len(m.Devices) == 0 {
		return fmt.Errorf("SendMemberPush: member %s has no registered devices", memberID)
	}

	var lastErr error
	for _, device := range m.Devices {
		if device.FCMToken == "" {
			continue
		}
		msg := &messaging.Message{
			Token: device.FCMToken,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
			s.Logger.Warn("failed to send push",
				zap.String("member_id", memberID),
				zap.String("device_id", device.DeviceID),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	return lastErr
}

// BroadcastPush sends a push to every device of every member.
func (s *DefaultNotificationService) BroadcastPush(ctx context.Context, title, body string, data map[string]string) {
	members, err := s.MemberRepo.GetAll()
	if err != nil {
		s.Logger.Error("BroadcastPush: failed to list members", zap.Error(err))
		return
	}
	for _, m := range members {
		if m.Anonymized || len(m.Devices) == 0 {
			continue
		}
		if err := s.SendMemberPush(ctx, m.ID, title, body, data); err != nil {
			continue
		}
	}
}
