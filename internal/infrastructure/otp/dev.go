package otp

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/you/portalsvc/domain"
)

// DevFixedCode always verifies under the development provider
const DevFixedCode = "123456"

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// DevProvider bypasses the network entirely. Send always succeeds and
// tells the user to enter the fixed code; Verify accepts the fixed code
// or any syntactically valid six-digit string. The role hint is inferred
// from the phone string, a development convenience that must never be
// the production authority on role.
type DevProvider struct {
	logger zerolog.Logger
}

// NewDevProvider creates the development provider
func NewDevProvider(logger zerolog.Logger) domain.OTPGateway {
	return &DevProvider{logger: logger}
}

// Name implements domain.OTPGateway
func (p *DevProvider) Name() string { return "dev" }

// Send implements domain.OTPGateway
func (p *DevProvider) Send(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
	p.logger.Info().Str("phone", phone).Msg("dev otp send, no SMS delivered")
	return &domain.OTPSendResult{
		Message: "Development mode: use code " + DevFixedCode,
	}, nil
}

// Verify implements domain.OTPGateway. The identifier is the phone
// number, as with other phone-keyed providers.
func (p *DevProvider) Verify(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
	if code != DevFixedCode && !sixDigits.MatchString(code) {
		return nil, domain.ErrInvalidCode
	}

	return &domain.OTPVerifyResult{
		Message:  "Phone number verified (dev)",
		RoleHint: inferRoleFromPhone(identifier),
	}, nil
}

// inferRoleFromPhone maps a phone string to a role for development
// logins: "admin" anywhere in the string or a national number starting
// with the reserved 999 prefix means admin, everything else patient.
func inferRoleFromPhone(phone string) string {
	if strings.Contains(phone, "admin") {
		return domain.RoleAdmin
	}

	national := strings.TrimPrefix(phone, "+")
	// NANP numbers carry a leading 1 before the reserved prefix
	national = strings.TrimPrefix(national, "1")
	if strings.HasPrefix(national, "999") {
		return domain.RoleAdmin
	}

	return domain.RolePatient
}
