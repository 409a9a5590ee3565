package domain

import "time"

// Profile types
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
	RoleUser    = "user"
)

// Session expiry windows. Remember-me extends the default window.
const (
	DefaultSessionExpiry  = 2 * time.Hour
	ExtendedSessionExpiry = 30 * 24 * time.Hour
)

// UserProfile represents a portal user keyed by phone number
type UserProfile struct {
	ID           string
	Phone        string
	ProfileType  string
	PatientName  string
	LastModified time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the profile carries the admin role
func (p *UserProfile) IsAdmin() bool {
	return p.ProfileType == RoleAdmin
}

// Session represents durable proof of a verified phone number
type Session struct {
	Token      string    `json:"token"`
	Phone      string    `json:"phone"`
	RememberMe bool      `json:"remember_me"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionWindow returns the expiry window for a remember-me choice
func SessionWindow(rememberMe bool) time.Duration {
	if rememberMe {
		return ExtendedSessionExpiry
	}
	return DefaultSessionExpiry
}

// OtpChallenge represents one outstanding verification attempt.
// It is ephemeral: created on a successful send, consumed on verify,
// and expired by TTL otherwise.
type OtpChallenge struct {
	Phone      string    `json:"phone"`
	RequestID  string    `json:"request_id,omitempty"`
	Provider   string    `json:"provider"`
	RememberMe bool      `json:"remember_me"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// OTPSendResult represents the outcome of issuing a code
type OTPSendResult struct {
	Message string
	// RequestID is the opaque correlation token returned by request-keyed
	// providers. Empty for providers keyed purely by phone.
	RequestID string
}

// OTPVerifyResult represents the outcome of checking a code
type OTPVerifyResult struct {
	Message string
	// RoleHint is only populated by the development provider, which infers
	// a role from the phone string. Production providers leave it empty.
	RoleHint string
}

// FlowState identifies where an authentication flow currently stands
type FlowState string

const (
	StateIdle          FlowState = "idle"
	StateSendingOtp    FlowState = "sending_otp"
	StateAwaitingCode  FlowState = "awaiting_code"
	StateVerifying     FlowState = "verifying"
	StateAuthenticated FlowState = "authenticated"
)

// AuthState is the caller-facing projection of an authentication flow.
// Error is an annotation on the state, not a separate terminal state.
type AuthState struct {
	State      FlowState
	Phone      string
	OtpSent    bool
	Loading    bool
	RememberMe bool
	DevMode    bool
	Error      string
}

// AuthResult represents a completed authentication
type AuthResult struct {
	Profile    *UserProfile
	Session    *Session
	RedirectTo string
}

// Report represents uploaded report metadata. File contents live in an
// external object store referenced by ObjectKey.
type Report struct {
	ID         uint
	PatientID  string
	FileName   string
	ObjectKey  string
	UploadedBy string
	CreatedAt  time.Time
}
