package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockOTPGateway implements domain.OTPGateway interface for testing
type MockOTPGateway struct {
	NameValue  string
	SendFunc   func(ctx context.Context, phone string) (*domain.OTPSendResult, error)
	VerifyFunc func(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error)
}

// NewMockOTPGateway creates a new MockOTPGateway with default behaviors
func NewMockOTPGateway() *MockOTPGateway {
	return &MockOTPGateway{NameValue: "mock"}
}

// Name returns the provider tag
func (m *MockOTPGateway) Name() string {
	return m.NameValue
}

// Send sends an OTP to the given phone
func (m *MockOTPGateway) Send(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone)
	}
	// Default behavior: success, phone-keyed
	return &domain.OTPSendResult{Message: "Verification code sent"}, nil
}

// Verify checks a code against the outstanding OTP
func (m *MockOTPGateway) Verify(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identifier, code)
	}
	// Default behavior: success, no role hint
	return &domain.OTPVerifyResult{Message: "Verified"}, nil
}

// Compile-time interface compliance verification
var _ domain.OTPGateway = (*MockOTPGateway)(nil)
