package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/routing"
)

// submitLockTTL bounds how long a stuck in-flight submit can block
// retries
const submitLockTTL = 30 * time.Second

// AuthFlowService implements domain.AuthFlow: the state machine from
// phone submission through OTP verification to an authenticated session
// and a role-based redirect. A Redis SETNX lock per phone is the only
// backpressure mechanism; a second submit while one is in flight is a
// no-op rather than being queued.
type AuthFlowService struct {
	gateway    domain.OTPGateway
	challenges domain.ChallengeStore
	sessions   domain.SessionStore
	resolver   domain.ProfileResolver
	redis      *redis.Client
	audit      domain.AuditLogger
	otpTTL     time.Duration
	devMode    bool
}

// NewAuthFlowService creates a new auth flow service
func NewAuthFlowService(
	gateway domain.OTPGateway,
	challenges domain.ChallengeStore,
	sessions domain.SessionStore,
	resolver domain.ProfileResolver,
	redisClient *redis.Client,
	audit domain.AuditLogger,
	otpTTL time.Duration,
) domain.AuthFlow {
	return &AuthFlowService{
		gateway:    gateway,
		challenges: challenges,
		sessions:   sessions,
		resolver:   resolver,
		redis:      redisClient,
		audit:      audit,
		otpTTL:     otpTTL,
		devMode:    gateway.Name() == "dev",
	}
}

// SubmitPhone implements domain.AuthFlow. An invalid phone stays in
// Idle with an error annotation and never reaches the gateway. A nil
// rememberMe falls back to the preference stored from an earlier
// session, which survives logout and expiry.
func (s *AuthFlowService) SubmitPhone(ctx context.Context, rawPhone string, rememberMe *bool) (*domain.AuthState, error) {
	phone := domain.NormalizePhone(rawPhone)
	state := &domain.AuthState{
		State:   domain.StateIdle,
		Phone:   phone,
		DevMode: s.devMode,
	}
	if rememberMe != nil {
		state.RememberMe = *rememberMe
	}

	if !domain.IsValidPhone(phone) {
		state.Error = domain.ErrInvalidPhone.Error()
		return state, domain.ErrInvalidPhone
	}

	if rememberMe == nil {
		// A failed lookup just means no stored preference
		if pref, err := s.sessions.RememberPreference(ctx, phone); err == nil {
			state.RememberMe = pref
		}
	}

	locked, err := s.redis.SetNX(ctx, "inflight:"+phone, 1, submitLockTTL).Result()
	if err != nil {
		state.Error = err.Error()
		return state, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !locked {
		// A send is already in flight for this phone; duplicate submits
		// are no-ops.
		state.State = domain.StateSendingOtp
		state.Loading = true
		return state, nil
	}
	// The lock must release even when the request context dies mid-send,
	// or resubmits stay blocked for the full lock TTL.
	unlockCtx := context.WithoutCancel(ctx)
	defer s.redis.Del(unlockCtx, "inflight:"+phone)

	state.State = domain.StateSendingOtp
	result, err := s.gateway.Send(ctx, phone)
	if err != nil {
		s.audit.LogEvent(ctx, &domain.AuditEvent{
			EventType: domain.OTPSendFailedEvent,
			Phone:     phone,
			Provider:  s.gateway.Name(),
			ErrorMsg:  err.Error(),
		})
		state.State = domain.StateIdle
		state.Error = err.Error()
		return state, err
	}

	now := time.Now()
	challenge := &domain.OtpChallenge{
		Phone:      phone,
		RequestID:  result.RequestID,
		Provider:   s.gateway.Name(),
		RememberMe: state.RememberMe,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.otpTTL),
	}
	if err := s.challenges.Put(ctx, challenge); err != nil {
		state.State = domain.StateIdle
		state.Error = err.Error()
		return state, fmt.Errorf("failed to record challenge: %w", err)
	}

	s.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.OTPRequestedEvent,
		Phone:     phone,
		Provider:  s.gateway.Name(),
		Success:   true,
	})

	state.State = domain.StateAwaitingCode
	state.OtpSent = true
	return state, nil
}

// SubmitCode implements domain.AuthFlow. The identifier is the phone
// number or, for request-keyed providers, the request id from send. A
// failed verification leaves the challenge valid for a manual retry.
func (s *AuthFlowService) SubmitCode(ctx context.Context, identifier, code, rememberedPath string) (*domain.AuthResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domain.ErrEmptyCode
	}

	challenge, err := s.loadChallenge(ctx, identifier)
	if err != nil {
		return nil, err
	}

	verifyID := challenge.Phone
	if challenge.RequestID != "" {
		verifyID = challenge.RequestID
	}

	result, err := s.gateway.Verify(ctx, verifyID, code)
	if err != nil {
		s.audit.LogEvent(ctx, &domain.AuditEvent{
			EventType: domain.OTPVerifyFailedEvent,
			Phone:     challenge.Phone,
			Provider:  challenge.Provider,
			ErrorMsg:  err.Error(),
		})
		if errors.Is(err, domain.ErrOTPMaxAttempts) {
			// The provider wiped the code; the challenge is spent
			s.challenges.Delete(ctx, challenge.Phone)
		}
		return nil, err
	}

	// Challenge consumed on success
	if err := s.challenges.Delete(ctx, challenge.Phone); err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}

	s.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.OTPVerifiedEvent,
		Phone:     challenge.Phone,
		Provider:  challenge.Provider,
		Success:   true,
	})

	profile, err := s.resolver.Resolve(ctx, challenge.Phone, result.RoleHint)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	session, err := s.sessions.Save(ctx, token, challenge.Phone, challenge.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.SessionCreatedEvent,
		Phone:     challenge.Phone,
		ProfileID: profile.ID,
		SessionID: session.Token,
		Success:   true,
	})

	redirect, _ := routing.DecideRedirect(true, profile.ProfileType, routing.LoginPath, rememberedPath)

	return &domain.AuthResult{
		Profile:    profile,
		Session:    session,
		RedirectTo: redirect,
	}, nil
}

// Restore implements domain.AuthFlow. An unexpired stored session is
// sufficient to reach Authenticated directly; send and verify are
// skipped entirely.
func (s *AuthFlowService) Restore(ctx context.Context, token string) (*domain.AuthResult, error) {
	session, err := s.sessions.Load(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			s.audit.LogEvent(ctx, &domain.AuditEvent{
				EventType: domain.SessionExpiredEvent,
				SessionID: token,
			})
		}
		return nil, err
	}

	profile, err := s.resolver.Resolve(ctx, session.Phone, "")
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.SessionRestoredEvent,
		Phone:     session.Phone,
		ProfileID: profile.ID,
		SessionID: session.Token,
		Success:   true,
	})

	redirect, _ := routing.DecideRedirect(true, profile.ProfileType, "/", "")

	return &domain.AuthResult{
		Profile:    profile,
		Session:    session,
		RedirectTo: redirect,
	}, nil
}

// Logout implements domain.AuthFlow
func (s *AuthFlowService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Clear(ctx, token); err != nil {
		return err
	}
	s.audit.LogEvent(ctx, &domain.AuditEvent{
		EventType: domain.UserLogoutEvent,
		SessionID: token,
		Success:   true,
	})
	return nil
}

func (s *AuthFlowService) loadChallenge(ctx context.Context, identifier string) (*domain.OtpChallenge, error) {
	if strings.HasPrefix(identifier, "+") {
		return s.challenges.Get(ctx, identifier)
	}
	return s.challenges.GetByRequestID(ctx, identifier)
}
