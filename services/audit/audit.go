package audit

import (
	"time"

	auditRepo "ptaconnect/database/repository/audit"
	"ptaconnect/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger records audit events. Calls are fire-and-forget: the structured log
// line always goes out, the database row is best-effort, and no failure ever
// reaches the caller.
type Logger interface {
	Log(event models.AuditEvent)
}

// DefaultLogger is the production implementation.
type DefaultLogger struct {
	Repo auditRepo.AuditRepository
	Zap  *zap.Logger
}

// NewLogger builds an audit logger over the given repository.
func NewLogger(repo auditRepo.AuditRepository, logger *zap.Logger) *DefaultLogger {
	return &DefaultLogger{Repo: repo, Zap: logger}
}

// Log writes the event to the process log and, from a goroutine, to the
// audit_logs collection. Persistence failures are logged and swallowed;
// auditing must never break the request path.
func (l *DefaultLogger) Log(event models.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.Zap.Info("audit",
		zap.String("audit_id", event.ID),
		zap.String("action", event.Action),
		zap.String("member_id", event.MemberID),
		zap.String("target_id", event.TargetID),
		zap.Any("details", event.Details),
	)

	if l.Repo == nil {
		return
	}
	go func(e models.AuditEvent) {
		defer func() {
			if r := recover(); r != nil {
				l.Zap.Error("audit persistence panicked", zap.Any("error", r))
			}
		}()
		if err := l.Repo.Insert(&e); err != nil {
			l.Zap.Error("failed to persist audit event",
				zap.String("audit_id", e.ID),
				zap.Error(err),
			)
		}
	}(event)
}
