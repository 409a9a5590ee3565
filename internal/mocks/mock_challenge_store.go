package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockChallengeStore implements domain.ChallengeStore interface for testing
type MockChallengeStore struct {
	PutFunc            func(ctx context.Context, challenge *domain.OtpChallenge) error
	GetFunc            func(ctx context.Context, phone string) (*domain.OtpChallenge, error)
	GetByRequestIDFunc func(ctx context.Context, requestID string) (*domain.OtpChallenge, error)
	DeleteFunc         func(ctx context.Context, phone string) error
}

// NewMockChallengeStore creates a new MockChallengeStore with default behaviors
func NewMockChallengeStore() *MockChallengeStore {
	return &MockChallengeStore{}
}

// Put stores an outstanding challenge
func (m *MockChallengeStore) Put(ctx context.Context, challenge *domain.OtpChallenge) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, challenge)
	}
	// Default behavior: success
	return nil
}

// Get fetches the challenge for a phone
func (m *MockChallengeStore) Get(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrChallengeNotFound
}

// GetByRequestID fetches the challenge by provider request id
func (m *MockChallengeStore) GetByRequestID(ctx context.Context, requestID string) (*domain.OtpChallenge, error) {
	if m.GetByRequestIDFunc != nil {
		return m.GetByRequestIDFunc(ctx, requestID)
	}
	// Default behavior: not found
	return nil, domain.ErrChallengeNotFound
}

// Delete removes the challenge for a phone
func (m *MockChallengeStore) Delete(ctx context.Context, phone string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, phone)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ChallengeStore = (*MockChallengeStore)(nil)
