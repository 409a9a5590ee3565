package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/mocks"
	"github.com/you/portalsvc/internal/routing"
)

type flowFixture struct {
	gateway    *mocks.MockOTPGateway
	challenges *mocks.MockChallengeStore
	sessions   *mocks.MockSessionStore
	resolver   *mocks.MockProfileResolver
	audit      *mocks.MockAuditLogger
	mr         *miniredis.Miniredis
	flow       domain.AuthFlow
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &flowFixture{
		gateway:    mocks.NewMockOTPGateway(),
		challenges: mocks.NewMockChallengeStore(),
		sessions:   mocks.NewMockSessionStore(),
		resolver:   mocks.NewMockProfileResolver(),
		audit:      mocks.NewMockAuditLogger(),
		mr:         mr,
	}
	f.flow = NewAuthFlowService(f.gateway, f.challenges, f.sessions, f.resolver, client, f.audit, 5*time.Minute)
	return f
}

func remember(b bool) *bool { return &b }

func TestSubmitPhone_InvalidPhone(t *testing.T) {
	f := newFlowFixture(t)
	f.gateway.SendFunc = func(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
		t.Error("gateway must not be reached for an invalid phone")
		return nil, nil
	}

	state, err := f.flow.SubmitPhone(context.Background(), "12345", remember(false))
	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if state.State != domain.StateIdle {
		t.Errorf("expected idle state, got %q", state.State)
	}
	if state.Error == "" {
		t.Error("expected error annotation on state")
	}
}

func TestSubmitPhone_Success(t *testing.T) {
	f := newFlowFixture(t)

	var put *domain.OtpChallenge
	f.challenges.PutFunc = func(ctx context.Context, challenge *domain.OtpChallenge) error {
		put = challenge
		return nil
	}

	state, err := f.flow.SubmitPhone(context.Background(), "81234567", remember(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.State != domain.StateAwaitingCode || !state.OtpSent {
		t.Errorf("expected awaiting_code with otp sent, got %+v", state)
	}
	if state.Phone != "+6581234567" {
		t.Errorf("expected normalized phone, got %q", state.Phone)
	}
	if put == nil {
		t.Fatal("expected challenge to be stored")
	}
	if !put.RememberMe {
		t.Error("expected remember-me carried into challenge")
	}
	if !f.audit.HasEvent(domain.OTPRequestedEvent) {
		t.Error("expected OTP_REQUESTED audit event")
	}
	// The in-flight lock is released after a completed submit
	if f.mr.Exists("inflight:+6581234567") {
		t.Error("expected in-flight lock to be released")
	}
}

func TestSubmitPhone_OmittedChoiceUsesStoredPreference(t *testing.T) {
	f := newFlowFixture(t)
	f.sessions.RememberPreferenceFunc = func(ctx context.Context, phone string) (bool, error) {
		if phone != "+6581234567" {
			t.Errorf("preference looked up for %q", phone)
		}
		return true, nil
	}

	var put *domain.OtpChallenge
	f.challenges.PutFunc = func(ctx context.Context, challenge *domain.OtpChallenge) error {
		put = challenge
		return nil
	}

	state, err := f.flow.SubmitPhone(context.Background(), "+6581234567", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.RememberMe {
		t.Error("expected stored preference to apply when the choice is omitted")
	}
	if put == nil || !put.RememberMe {
		t.Error("expected stored preference carried into challenge")
	}
}

func TestSubmitPhone_ExplicitChoiceOverridesStoredPreference(t *testing.T) {
	f := newFlowFixture(t)
	f.sessions.RememberPreferenceFunc = func(ctx context.Context, phone string) (bool, error) {
		t.Error("an explicit choice must not consult the stored preference")
		return true, nil
	}

	state, err := f.flow.SubmitPhone(context.Background(), "+6581234567", remember(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.RememberMe {
		t.Error("expected explicit choice to win")
	}
}

func TestSubmitPhone_LockReleasedAfterClientDisconnect(t *testing.T) {
	f := newFlowFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.gateway.SendFunc = func(_ context.Context, phone string) (*domain.OTPSendResult, error) {
		// The client goes away while the provider call is in flight
		cancel()
		return &domain.OTPSendResult{}, nil
	}

	if _, err := f.flow.SubmitPhone(ctx, "+6581234567", remember(false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.mr.Exists("inflight:+6581234567") {
		t.Error("expected lock released despite the dead request context")
	}
}

func TestSubmitPhone_DuplicateWhileInFlight(t *testing.T) {
	f := newFlowFixture(t)
	f.mr.Set("inflight:+6581234567", "1")

	sent := false
	f.gateway.SendFunc = func(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
		sent = true
		return &domain.OTPSendResult{}, nil
	}

	state, err := f.flow.SubmitPhone(context.Background(), "+6581234567", remember(false))
	if err != nil {
		t.Fatalf("duplicate submit must be a silent no-op, got %v", err)
	}
	if sent {
		t.Error("duplicate submit must not reach the gateway")
	}
	if !state.Loading || state.State != domain.StateSendingOtp {
		t.Errorf("expected loading sending_otp state, got %+v", state)
	}
}

func TestSubmitPhone_GatewayFailure(t *testing.T) {
	f := newFlowFixture(t)
	f.gateway.SendFunc = func(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
		return nil, domain.ErrProviderRejected
	}

	state, err := f.flow.SubmitPhone(context.Background(), "+6581234567", remember(false))
	if !errors.Is(err, domain.ErrProviderRejected) {
		t.Fatalf("expected ErrProviderRejected, got %v", err)
	}
	if state.State != domain.StateIdle {
		t.Errorf("expected state back to idle, got %q", state.State)
	}
	if !f.audit.HasEvent(domain.OTPSendFailedEvent) {
		t.Error("expected OTP_SEND_FAILED audit event")
	}
	// A failed send releases the lock so the user can retry
	if f.mr.Exists("inflight:+6581234567") {
		t.Error("expected in-flight lock to be released after failure")
	}
}

func TestSubmitCode_EmptyCode(t *testing.T) {
	f := newFlowFixture(t)
	_, err := f.flow.SubmitCode(context.Background(), "+6581234567", "  ", "")
	if !errors.Is(err, domain.ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
}

func TestSubmitCode_NoChallenge(t *testing.T) {
	f := newFlowFixture(t)
	_, err := f.flow.SubmitCode(context.Background(), "+6581234567", "123456", "")
	if !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestSubmitCode_Success(t *testing.T) {
	f := newFlowFixture(t)

	f.challenges.GetFunc = func(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
		return &domain.OtpChallenge{Phone: phone, Provider: "twilio", RememberMe: true}, nil
	}
	deleted := false
	f.challenges.DeleteFunc = func(ctx context.Context, phone string) error {
		deleted = true
		return nil
	}
	f.resolver.ResolveFunc = func(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "user_1", Phone: phone, ProfileType: domain.RolePatient}, nil
	}

	var savedRemember bool
	f.sessions.SaveFunc = func(ctx context.Context, token, phone string, rememberMe bool) (*domain.Session, error) {
		savedRemember = rememberMe
		if token == "" {
			t.Error("expected a generated session token")
		}
		now := time.Now()
		return &domain.Session{Token: token, Phone: phone, RememberMe: rememberMe, CreatedAt: now, ExpiresAt: now.Add(domain.SessionWindow(rememberMe))}, nil
	}

	result, err := f.flow.SubmitCode(context.Background(), "+6581234567", "123456", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected challenge to be consumed")
	}
	if !savedRemember {
		t.Error("expected remember-me from challenge to reach session save")
	}
	if result.RedirectTo != routing.PatientLanding {
		t.Errorf("expected redirect to %q, got %q", routing.PatientLanding, result.RedirectTo)
	}
	if !f.audit.HasEvent(domain.OTPVerifiedEvent) {
		t.Error("expected OTP_VERIFIED audit event")
	}
	if !f.audit.HasEvent(domain.SessionCreatedEvent) {
		t.Error("expected SESSION_CREATED audit event")
	}
}

func TestSubmitCode_RememberedPathWins(t *testing.T) {
	f := newFlowFixture(t)
	f.challenges.GetFunc = func(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
		return &domain.OtpChallenge{Phone: phone, Provider: "twilio"}, nil
	}

	result, err := f.flow.SubmitCode(context.Background(), "+6581234567", "123456", "/all-reports")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RedirectTo != "/all-reports" {
		t.Errorf("expected remembered path, got %q", result.RedirectTo)
	}
}

func TestSubmitCode_RequestKeyedLookup(t *testing.T) {
	f := newFlowFixture(t)

	f.challenges.GetByRequestIDFunc = func(ctx context.Context, requestID string) (*domain.OtpChallenge, error) {
		if requestID != "req_42" {
			t.Errorf("unexpected request id %q", requestID)
		}
		return &domain.OtpChallenge{Phone: "+6581234567", RequestID: "req_42", Provider: "httpverify"}, nil
	}
	f.gateway.VerifyFunc = func(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
		if identifier != "req_42" {
			t.Errorf("request-keyed provider must verify by request id, got %q", identifier)
		}
		return &domain.OTPVerifyResult{}, nil
	}

	if _, err := f.flow.SubmitCode(context.Background(), "req_42", "123456", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmitCode_InvalidCodeKeepsChallenge(t *testing.T) {
	f := newFlowFixture(t)
	f.challenges.GetFunc = func(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
		return &domain.OtpChallenge{Phone: phone, Provider: "twilio"}, nil
	}
	f.gateway.VerifyFunc = func(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
		return nil, domain.ErrInvalidCode
	}
	f.challenges.DeleteFunc = func(ctx context.Context, phone string) error {
		t.Error("a wrong code must leave the challenge for retry")
		return nil
	}

	_, err := f.flow.SubmitCode(context.Background(), "+6581234567", "000000", "")
	if !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if !f.audit.HasEvent(domain.OTPVerifyFailedEvent) {
		t.Error("expected OTP_VERIFY_FAILED audit event")
	}
}

func TestSubmitCode_MaxAttemptsSpendsChallenge(t *testing.T) {
	f := newFlowFixture(t)
	f.challenges.GetFunc = func(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
		return &domain.OtpChallenge{Phone: phone, Provider: "twilio"}, nil
	}
	f.gateway.VerifyFunc = func(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
		return nil, domain.ErrOTPMaxAttempts
	}

	deleted := false
	f.challenges.DeleteFunc = func(ctx context.Context, phone string) error {
		deleted = true
		return nil
	}

	_, err := f.flow.SubmitCode(context.Background(), "+6581234567", "000000", "")
	if !errors.Is(err, domain.ErrOTPMaxAttempts) {
		t.Fatalf("expected ErrOTPMaxAttempts, got %v", err)
	}
	if !deleted {
		t.Error("expected exhausted challenge to be removed")
	}
}

func TestSubmitCode_RoleHintReachesResolver(t *testing.T) {
	f := newFlowFixture(t)
	f.challenges.GetFunc = func(ctx context.Context, phone string) (*domain.OtpChallenge, error) {
		return &domain.OtpChallenge{Phone: phone, Provider: "dev"}, nil
	}
	f.gateway.VerifyFunc = func(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
		return &domain.OTPVerifyResult{RoleHint: domain.RoleAdmin}, nil
	}

	var hint string
	f.resolver.ResolveFunc = func(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
		hint = roleHint
		return &domain.UserProfile{ID: "A_1", Phone: phone, ProfileType: domain.RoleAdmin}, nil
	}

	result, err := f.flow.SubmitCode(context.Background(), "+1999555000", "123456", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint != domain.RoleAdmin {
		t.Errorf("expected admin role hint, got %q", hint)
	}
	if result.RedirectTo != routing.AdminLanding {
		t.Errorf("expected admin landing, got %q", result.RedirectTo)
	}
}

func TestRestore_Success(t *testing.T) {
	f := newFlowFixture(t)
	now := time.Now()
	f.sessions.LoadFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return &domain.Session{Token: token, Phone: "+6581234567", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
	}

	result, err := f.flow.Restore(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Session.Token != "tok_1" {
		t.Errorf("expected restored session token, got %q", result.Session.Token)
	}
	if result.RedirectTo != routing.PatientLanding {
		t.Errorf("expected patient landing, got %q", result.RedirectTo)
	}
	if !f.audit.HasEvent(domain.SessionRestoredEvent) {
		t.Error("expected SESSION_RESTORED audit event")
	}
}

func TestRestore_Expired(t *testing.T) {
	f := newFlowFixture(t)
	f.sessions.LoadFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return nil, domain.ErrSessionExpired
	}

	_, err := f.flow.Restore(context.Background(), "tok_1")
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !f.audit.HasEvent(domain.SessionExpiredEvent) {
		t.Error("expected SESSION_EXPIRED audit event")
	}
}

func TestLogout(t *testing.T) {
	f := newFlowFixture(t)
	cleared := ""
	f.sessions.ClearFunc = func(ctx context.Context, token string) error {
		cleared = token
		return nil
	}

	if err := f.flow.Logout(context.Background(), "tok_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared != "tok_1" {
		t.Errorf("expected session tok_1 cleared, got %q", cleared)
	}
	if !f.audit.HasEvent(domain.UserLogoutEvent) {
		t.Error("expected USER_LOGOUT audit event")
	}
}
