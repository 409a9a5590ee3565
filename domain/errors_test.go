package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{"ErrInvalidPhone", ErrInvalidPhone, "invalid phone number"},
		{"ErrEmptyCode", ErrEmptyCode, "verification code is required"},
		{"ErrProviderRejected", ErrProviderRejected, "otp provider rejected the request"},
		{"ErrInvalidCode", ErrInvalidCode, "invalid verification code"},
		{"ErrChallengeNotFound", ErrChallengeNotFound, "no outstanding verification for this phone"},
		{"ErrOTPMaxAttempts", ErrOTPMaxAttempts, "maximum verification attempts exceeded"},
		{"ErrNetwork", ErrNetwork, "network error contacting otp provider"},
		{"ErrSessionNotFound", ErrSessionNotFound, "session not found"},
		{"ErrSessionExpired", ErrSessionExpired, "session has expired"},
		{"ErrProfileNotFound", ErrProfileNotFound, "profile not found"},
		{"ErrProfileLookup", ErrProfileLookup, "profile lookup failed"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized access"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	// Sentinel errors must survive %w wrapping for errors.Is matching at
	// the HTTP boundary.
	wrapped := fmt.Errorf("send failed for +6581234567: %w", ErrProviderRejected)
	if !errors.Is(wrapped, ErrProviderRejected) {
		t.Error("wrapped provider error should match ErrProviderRejected")
	}
	if errors.Is(wrapped, ErrInvalidCode) {
		t.Error("wrapped provider error should not match ErrInvalidCode")
	}
}

func TestErrorIdentity(t *testing.T) {
	// Distinct sentinels never alias each other even with related meanings
	pairs := [][2]error{
		{ErrSessionNotFound, ErrSessionExpired},
		{ErrInvalidCode, ErrOTPMaxAttempts},
		{ErrProfileNotFound, ErrProfileLookup},
	}
	for _, p := range pairs {
		if errors.Is(p[0], p[1]) {
			t.Errorf("%v should not match %v", p[0], p[1])
		}
	}
}
