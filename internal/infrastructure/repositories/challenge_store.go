package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/portalsvc/domain"
)

// ChallengeStoreImpl implements domain.ChallengeStore using Redis.
// Challenges live only between send and verify; the key TTL matches the
// OTP validity window, so an abandoned flow simply evaporates.
type ChallengeStoreImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChallengeStore creates a new challenge store
func NewChallengeStore(client *redis.Client, ttl time.Duration) domain.ChallengeStore {
	return &ChallengeStoreImpl{client: client, ttl: ttl}
}

func challengeKey(phone string) string    { return "challenge:" + phone }
func challengeReqKey(reqID string) string { return "challenge:req:" + reqID }

// Put implements domain.ChallengeStore. Request-keyed providers get a
// secondary index from request id to phone.
func (s *ChallengeStoreImpl) Put(ctx context.Context, challenge *domain.OtpChallenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	if err := s.client.Set(ctx, challengeKey(challenge.Phone), data, s.ttl).Err(); err != nil {
		return err
	}
	if challenge.RequestID != "" {
		if err := s.client.Set(ctx, challengeReqKey(challenge.RequestID), challenge.Phone, s.ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Get implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Get(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
	data, err := s.client.Get(ctx, challengeKey(phone)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}

	var challenge domain.OtpChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &challenge, nil
}

// GetByRequestID implements domain.ChallengeStore
func (s *ChallengeStoreImpl) GetByRequestID(ctx context.Context, requestID string) (*domain.OtpChallenge, error) {
	phone, err := s.client.Get(ctx, challengeReqKey(requestID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return s.Get(ctx, phone)
}

// Delete implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Delete(ctx context.Context, phone string) error {
	challenge, err := s.Get(ctx, phone)
	if err == nil && challenge.RequestID != "" {
		s.client.Del(ctx, challengeReqKey(challenge.RequestID))
	}
	return s.client.Del(ctx, challengeKey(phone)).Err()
}
