package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/portalsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionStore using Redis.
// The key TTL mirrors the session expiry window so Redis reaps expired
// sessions on its own; the stored ExpiresAt remains the authority for
// the expiry comparison.
type SessionRepositoryImpl struct {
	client         *redis.Client
	prefix         string
	rememberPrefix string
}

// NewSessionRepository creates a new session store
func NewSessionRepository(client *redis.Client) domain.SessionStore {
	return &SessionRepositoryImpl{
		client:         client,
		prefix:         "session:",
		rememberPrefix: "remember:",
	}
}

// Save implements domain.SessionStore. ExpiresAt is always now plus the
// window selected by rememberMe.
func (r *SessionRepositoryImpl) Save(ctx context.Context, token, phone string, rememberMe bool) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		Token:      token,
		Phone:      phone,
		RememberMe: rememberMe,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.SessionWindow(rememberMe)),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+token, data, domain.SessionWindow(rememberMe)).Err(); err != nil {
		return nil, err
	}

	// The remember-me preference lives under its own key so it survives
	// logout and session expiry.
	pref := "0"
	if rememberMe {
		pref = "1"
	}
	if err := r.client.Set(ctx, r.rememberPrefix+phone, pref, 0).Err(); err != nil {
		return nil, err
	}

	return session, nil
}

// Load implements domain.SessionStore. It fails closed: a missing key
// reads as no session, unparsable data reads as no session, and an
// expired session is deleted and reported as expired.
func (r *SessionRepositoryImpl) Load(ctx context.Context, token string) (*domain.Session, error) {
	key := r.prefix + token
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionNotFound
	}

	if session.IsExpired() {
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Clear implements domain.SessionStore. The remember-me preference key
// is deliberately preserved so a returning user's choice persists across
// logouts.
func (r *SessionRepositoryImpl) Clear(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}

// RememberPreference implements domain.SessionStore
func (r *SessionRepositoryImpl) RememberPreference(ctx context.Context, phone string) (bool, error) {
	val, err := r.client.Get(ctx, r.rememberPrefix+phone).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return val == "1", nil
}
