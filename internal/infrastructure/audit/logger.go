package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/you/portalsvc/domain"
)

// ZerologAuditLogger implements domain.AuditLogger on top of zerolog.
// Audit failures never propagate to the calling flow.
type ZerologAuditLogger struct {
	logger zerolog.Logger
}

// NewLogger creates a new audit logger
func NewLogger(logger zerolog.Logger) domain.AuditLogger {
	return &ZerologAuditLogger{logger: logger}
}

// LogEvent implements domain.AuditLogger
func (l *ZerologAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	evt := l.logger.Info()
	if !event.Success {
		evt = l.logger.Warn()
	}

	evt = evt.
		Str("event_type", string(event.EventType)).
		Time("event_time", event.Timestamp).
		Bool("success", event.Success)

	if event.Phone != "" {
		evt = evt.Str("phone", event.Phone)
	}
	if event.ProfileID != "" {
		evt = evt.Str("profile_id", event.ProfileID)
	}
	if event.SessionID != "" {
		evt = evt.Str("session_id", event.SessionID)
	}
	if event.Provider != "" {
		evt = evt.Str("provider", event.Provider)
	}
	if event.ErrorMsg != "" {
		evt = evt.Str("error", event.ErrorMsg)
	}

	evt.Msg("audit")
}

var _ domain.AuditLogger = (*ZerologAuditLogger)(nil)
