package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockAuthFlow implements domain.AuthFlow interface for testing
type MockAuthFlow struct {
	SubmitPhoneFunc func(ctx context.Context, rawPhone string, rememberMe *bool) (*domain.AuthState, error)
	SubmitCodeFunc  func(ctx context.Context, identifier, code, rememberedPath string) (*domain.AuthResult, error)
	RestoreFunc     func(ctx context.Context, token string) (*domain.AuthResult, error)
	LogoutFunc      func(ctx context.Context, token string) error
}

// NewMockAuthFlow creates a new MockAuthFlow with default behaviors
func NewMockAuthFlow() *MockAuthFlow {
	return &MockAuthFlow{}
}

// SubmitPhone starts an OTP flow for a phone
func (m *MockAuthFlow) SubmitPhone(ctx context.Context, rawPhone string, rememberMe *bool) (*domain.AuthState, error) {
	if m.SubmitPhoneFunc != nil {
		return m.SubmitPhoneFunc(ctx, rawPhone, rememberMe)
	}
	// Default behavior: code sent
	return &domain.AuthState{
		State:      domain.StateAwaitingCode,
		Phone:      domain.NormalizePhone(rawPhone),
		OtpSent:    true,
		RememberMe: rememberMe != nil && *rememberMe,
	}, nil
}

// SubmitCode verifies a code and establishes a session
func (m *MockAuthFlow) SubmitCode(ctx context.Context, identifier, code, rememberedPath string) (*domain.AuthResult, error) {
	if m.SubmitCodeFunc != nil {
		return m.SubmitCodeFunc(ctx, identifier, code, rememberedPath)
	}
	// Default behavior: invalid code
	return nil, domain.ErrInvalidCode
}

// Restore resumes a stored session
func (m *MockAuthFlow) Restore(ctx context.Context, token string) (*domain.AuthResult, error) {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, token)
	}
	// Default behavior: no session
	return nil, domain.ErrSessionNotFound
}

// Logout ends a session
func (m *MockAuthFlow) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthFlow = (*MockAuthFlow)(nil)
