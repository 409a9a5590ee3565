package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockProfileRepository implements domain.ProfileRepository interface for testing
type MockProfileRepository struct {
	CreateFunc            func(ctx context.Context, profile *domain.UserProfile) error
	FindByIDFunc          func(ctx context.Context, id string) (*domain.UserProfile, error)
	FindByPhoneFunc       func(ctx context.Context, phone string) (*domain.UserProfile, error)
	FindByPhonePrefixFunc func(ctx context.Context, phone string) (*domain.UserProfile, error)
	UpdateFunc            func(ctx context.Context, profile *domain.UserProfile) error
	ListFunc              func(ctx context.Context) ([]domain.UserProfile, error)
}

// NewMockProfileRepository creates a new MockProfileRepository with default behaviors
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

// Create inserts a new profile
func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	// Default behavior: success
	return nil
}

// FindByID finds a profile by its id
func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrProfileNotFound
}

// FindByPhone finds a profile by exact phone match
func (m *MockProfileRepository) FindByPhone(ctx context.Context, phone string) (*domain.UserProfile, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrProfileNotFound
}

// FindByPhonePrefix finds a profile whose stored phone starts with the given phone
func (m *MockProfileRepository) FindByPhonePrefix(ctx context.Context, phone string) (*domain.UserProfile, error) {
	if m.FindByPhonePrefixFunc != nil {
		return m.FindByPhonePrefixFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrProfileNotFound
}

// Update updates an existing profile
func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	// Default behavior: success
	return nil
}

// List returns all profiles
func (m *MockProfileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	// Default behavior: empty
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.ProfileRepository = (*MockProfileRepository)(nil)
