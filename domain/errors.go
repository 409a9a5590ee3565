package domain

import "errors"

// Validation errors, caught before any network call
var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrEmptyCode    = errors.New("verification code is required")
)

// Provider errors
var (
	ErrProviderRejected  = errors.New("otp provider rejected the request")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrChallengeNotFound = errors.New("no outstanding verification for this phone")
	ErrOTPMaxAttempts    = errors.New("maximum verification attempts exceeded")
	ErrNetwork           = errors.New("network error contacting otp provider")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Profile errors. A phone collision is not an error: creation stores
// the new record under a suffixed phone instead.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileLookup   = errors.New("profile lookup failed")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
