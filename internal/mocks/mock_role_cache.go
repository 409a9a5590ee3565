package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockRoleCache implements domain.RoleCache interface for testing
type MockRoleCache struct {
	PutFunc func(ctx context.Context, phone, role string) error
	GetFunc func(ctx context.Context, phone string) (string, error)
}

// NewMockRoleCache creates a new MockRoleCache with default behaviors
func NewMockRoleCache() *MockRoleCache {
	return &MockRoleCache{}
}

// Put caches a role for a phone
func (m *MockRoleCache) Put(ctx context.Context, phone, role string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, phone, role)
	}
	// Default behavior: success
	return nil
}

// Get returns the cached role, empty on miss
func (m *MockRoleCache) Get(ctx context.Context, phone string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, phone)
	}
	// Default behavior: miss
	return "", nil
}

// Compile-time interface compliance verification
var _ domain.RoleCache = (*MockRoleCache)(nil)
