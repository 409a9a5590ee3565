package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockProfileResolver implements domain.ProfileResolver interface for testing
type MockProfileResolver struct {
	ResolveFunc func(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error)
}

// NewMockProfileResolver creates a new MockProfileResolver with default behaviors
func NewMockProfileResolver() *MockProfileResolver {
	return &MockProfileResolver{}
}

// Resolve fetches or lazily creates the profile for a phone
func (m *MockProfileResolver) Resolve(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, phone, roleHint)
	}
	// Default behavior: a patient profile for the phone
	return &domain.UserProfile{
		ID:          "user_1",
		Phone:       phone,
		ProfileType: domain.RolePatient,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.ProfileResolver = (*MockProfileResolver)(nil)
