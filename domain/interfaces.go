package domain

import "context"

// OTPGateway abstracts send/verify over interchangeable SMS providers.
// Phone-keyed providers take the phone number as the verify identifier;
// request-keyed providers take the request id returned from Send.
type OTPGateway interface {
	Name() string
	Send(ctx context.Context, phone string) (*OTPSendResult, error)
	Verify(ctx context.Context, identifier, code string) (*OTPVerifyResult, error)
}

// ProfileRepository defines profile data access operations
type ProfileRepository interface {
	// Create inserts a new profile. If the phone already belongs to another
	// record, a disambiguating suffix is appended to the stored phone and
	// the original record is left undisturbed.
	Create(ctx context.Context, profile *UserProfile) error
	FindByID(ctx context.Context, id string) (*UserProfile, error)
	FindByPhone(ctx context.Context, phone string) (*UserProfile, error)
	// FindByPhonePrefix matches records whose stored phone starts with the
	// given phone, tolerating collision-suffixed historical records.
	FindByPhonePrefix(ctx context.Context, phone string) (*UserProfile, error)
	Update(ctx context.Context, profile *UserProfile) error
	List(ctx context.Context) ([]UserProfile, error)
}

// ReportRepository defines report metadata access operations
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	ListByPatient(ctx context.Context, patientID string) ([]Report, error)
}

// SessionStore persists sessions with expiry derived from the
// remember-me choice
type SessionStore interface {
	Save(ctx context.Context, token, phone string, rememberMe bool) (*Session, error)
	// Load fails closed: missing or unparsable data reads as no session,
	// and an expired session is deleted and reported as expired.
	Load(ctx context.Context, token string) (*Session, error)
	// Clear removes the session and cached phone but preserves the
	// standalone remember-me preference.
	Clear(ctx context.Context, token string) error
	RememberPreference(ctx context.Context, phone string) (bool, error)
}

// ChallengeStore holds outstanding OTP challenges between send and verify
type ChallengeStore interface {
	Put(ctx context.Context, challenge *OtpChallenge) error
	Get(ctx context.Context, phone string) (*OtpChallenge, error)
	GetByRequestID(ctx context.Context, requestID string) (*OtpChallenge, error)
	Delete(ctx context.Context, phone string) error
}

// RoleCache is a read-through cache of profile types keyed by phone.
// The backing profile store always wins on conflict.
type RoleCache interface {
	Put(ctx context.Context, phone, role string) error
	Get(ctx context.Context, phone string) (string, error)
}

// ProfileResolver fetches or lazily creates the profile for a verified
// phone number
type ProfileResolver interface {
	Resolve(ctx context.Context, phone, roleHint string) (*UserProfile, error)
}

// AuthFlow is the authentication state machine tying phone validation,
// OTP issuance, verification, session persistence and redirect routing
// together
type AuthFlow interface {
	// SubmitPhone starts a flow. A nil rememberMe means the caller made
	// no explicit choice and the stored preference applies.
	SubmitPhone(ctx context.Context, rawPhone string, rememberMe *bool) (*AuthState, error)
	SubmitCode(ctx context.Context, identifier, code, rememberedPath string) (*AuthResult, error)
	Restore(ctx context.Context, token string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
