package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/you/portalsvc/domain"
)

// ProfileResolverImpl implements domain.ProfileResolver. Lookup is exact
// phone first, then starts-with to tolerate collision-suffixed records,
// then lazy creation. Every successful resolution refreshes the role
// cache so role-gated decisions survive a restart before the next
// backend round trip.
type ProfileResolverImpl struct {
	profileRepo domain.ProfileRepository
	roleCache   domain.RoleCache
	audit       domain.AuditLogger
	logger      zerolog.Logger
}

// NewProfileResolver creates a new profile resolver
func NewProfileResolver(profileRepo domain.ProfileRepository, roleCache domain.RoleCache, audit domain.AuditLogger, logger zerolog.Logger) domain.ProfileResolver {
	return &ProfileResolverImpl{
		profileRepo: profileRepo,
		roleCache:   roleCache,
		audit:       audit,
		logger:      logger,
	}
}

// Resolve implements domain.ProfileResolver. roleHint comes from the
// dev OTP provider only; production providers pass it empty and new
// profiles default to patient.
func (r *ProfileResolverImpl) Resolve(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
	profile, err := r.profileRepo.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile, err = r.profileRepo.FindByPhonePrefix(ctx, phone)
	}

	if err == nil {
		r.cacheRole(ctx, phone, profile.ProfileType)
		return profile, nil
	}

	if !errors.Is(err, domain.ErrProfileNotFound) {
		// Backend read error: trade strict consistency for availability
		// and let the user in with a best-effort local profile.
		r.logger.Error().Err(err).Str("phone", phone).Msg("profile lookup failed, using local fallback")
		return r.fallbackProfile(ctx, phone), nil
	}

	return r.create(ctx, phone, roleHint)
}

func (r *ProfileResolverImpl) create(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
	role := domain.RolePatient
	idPrefix := "user"
	if roleHint == domain.RoleAdmin {
		role = domain.RoleAdmin
		idPrefix = "A"
	}

	profile := &domain.UserProfile{
		ID:          fmt.Sprintf("%s_%d", idPrefix, time.Now().UnixMilli()),
		Phone:       phone,
		ProfileType: role,
	}

	if err := r.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	r.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.ProfileCreatedEvent,
		Phone:     profile.Phone,
		ProfileID: profile.ID,
		Success:   true,
	})
	r.cacheRole(ctx, phone, profile.ProfileType)

	return profile, nil
}

// fallbackProfile builds an in-memory profile when the backend cannot be
// read. The cached role fills in if one exists; the record is not
// persisted and the backend wins on the next successful lookup.
func (r *ProfileResolverImpl) fallbackProfile(ctx context.Context, phone string) *domain.UserProfile {
	role := domain.RolePatient
	if cached, err := r.roleCache.Get(ctx, phone); err == nil && cached != "" {
		role = cached
	}

	return &domain.UserProfile{
		ID:          fmt.Sprintf("user_%d", time.Now().UnixMilli()),
		Phone:       phone,
		ProfileType: role,
	}
}

func (r *ProfileResolverImpl) cacheRole(ctx context.Context, phone, role string) {
	if err := r.roleCache.Put(ctx, phone, role); err != nil {
		r.logger.Warn().Err(err).Str("phone", phone).Msg("failed to cache role")
	}
}

var _ domain.ProfileResolver = (*ProfileResolverImpl)(nil)
