package mocks

import (
	"context"
	"time"

	"github.com/you/portalsvc/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing
type MockSessionStore struct {
	SaveFunc               func(ctx context.Context, token, phone string, rememberMe bool) (*domain.Session, error)
	LoadFunc               func(ctx context.Context, token string) (*domain.Session, error)
	ClearFunc              func(ctx context.Context, token string) error
	RememberPreferenceFunc func(ctx context.Context, phone string) (bool, error)
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Save persists a session
func (m *MockSessionStore) Save(ctx context.Context, token, phone string, rememberMe bool) (*domain.Session, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token, phone, rememberMe)
	}
	// Default behavior: in-memory session with the proper window
	now := time.Now()
	return &domain.Session{
		Token:      token,
		Phone:      phone,
		RememberMe: rememberMe,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.SessionWindow(rememberMe)),
	}, nil
}

// Load fetches a session by token
func (m *MockSessionStore) Load(ctx context.Context, token string) (*domain.Session, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// Clear removes a session
func (m *MockSessionStore) Clear(ctx context.Context, token string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// RememberPreference reports the stored remember-me choice for a phone
func (m *MockSessionStore) RememberPreference(ctx context.Context, phone string) (bool, error) {
	if m.RememberPreferenceFunc != nil {
		return m.RememberPreferenceFunc(ctx, phone)
	}
	// Default behavior: not remembered
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
