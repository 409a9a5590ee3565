package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// OTP events
	OTPRequestedEvent    AuditEventType = "OTP_REQUESTED"
	OTPSendFailedEvent   AuditEventType = "OTP_SEND_FAILED"
	OTPVerifiedEvent     AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailedEvent AuditEventType = "OTP_VERIFY_FAILED"

	// Session events
	SessionCreatedEvent  AuditEventType = "SESSION_CREATED"
	SessionRestoredEvent AuditEventType = "SESSION_RESTORED"
	SessionExpiredEvent  AuditEventType = "SESSION_EXPIRED"
	UserLogoutEvent      AuditEventType = "USER_LOGOUT"

	// Profile events
	ProfileCreatedEvent AuditEventType = "PROFILE_CREATED"
	ProfileUpdatedEvent AuditEventType = "PROFILE_UPDATED"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	Phone     string         `json:"phone,omitempty"`
	ProfileID string         `json:"profile_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
	Success   bool           `json:"success"`
}

// AuditLogger defines operations for audit logging. Implementations must
// never fail the calling flow: audit problems are logged, not propagated.
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}
