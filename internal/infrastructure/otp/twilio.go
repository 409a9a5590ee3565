package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/you/portalsvc/domain"
)

// TwilioProvider is the phone-keyed provider: it mints a code locally,
// stores it in Redis under the phone number and delivers it over Twilio
// SMS. Verify takes the phone number as identifier.
type TwilioProvider struct {
	client      *twilio.RestClient
	fromNumber  string
	redisClient *redis.Client
	config      Config
	logger      zerolog.Logger
}

// NewTwilioProvider creates a new Twilio-backed OTP provider
func NewTwilioProvider(accountSID, authToken, fromNumber string, redisClient *redis.Client, config Config, logger zerolog.Logger) domain.OTPGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioProvider{
		client:      client,
		fromNumber:  fromNumber,
		redisClient: redisClient,
		config:      config,
		logger:      logger,
	}
}

// Name implements domain.OTPGateway
func (p *TwilioProvider) Name() string { return "twilio" }

func otpKey(phone string) string      { return "otp:" + phone }
func attemptsKey(phone string) string { return "otp:att:" + phone }
func resendKey(phone string) string   { return "otp:res:" + phone }

// Send implements domain.OTPGateway
func (p *TwilioProvider) Send(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
	ttl, err := p.redisClient.TTL(ctx, resendKey(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check resend throttle: %w", err)
	}
	if ttl > 0 {
		return nil, fmt.Errorf("%w: please wait %d seconds before requesting a new code",
			domain.ErrProviderRejected, int64(ttl.Seconds()))
	}

	code, err := p.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := p.redisClient.Set(ctx, otpKey(phone), code, p.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}
	if err := p.redisClient.Set(ctx, attemptsKey(phone), 0, p.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}
	if err := p.redisClient.Set(ctx, resendKey(phone), 1, p.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(p.config.TTL.Minutes()))
	if err := p.sendSMS(phone, message); err != nil {
		// Clean up so a failed delivery does not strand a live code
		p.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone), resendKey(phone))
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderRejected, err)
	}

	return &domain.OTPSendResult{Message: "Verification code sent"}, nil
}

// Verify implements domain.OTPGateway. The identifier is the phone
// number the code was sent to.
func (p *TwilioProvider) Verify(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
	phone := identifier

	attempts, err := p.redisClient.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment attempts: %w", err)
	}
	if attempts > int64(p.config.MaxAttempts) {
		p.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone))
		return nil, domain.ErrOTPMaxAttempts
	}

	storedCode, err := p.redisClient.Get(ctx, otpKey(phone)).Result()
	if err == redis.Nil {
		// Covers both an expired challenge and a verify without a send
		return nil, domain.ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read OTP: %w", err)
	}

	if storedCode != code {
		return nil, domain.ErrInvalidCode
	}

	p.redisClient.Del(ctx, otpKey(phone), attemptsKey(phone))

	return &domain.OTPVerifyResult{Message: "Phone number verified"}, nil
}

func (p *TwilioProvider) sendSMS(to, message string) error {
	// Without a configured sender, log instead of sending
	if p.fromNumber == "" {
		p.logger.Info().Str("to", to).Msg("twilio sender not configured, logging SMS instead")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(p.fromNumber)
	params.SetBody(message)

	if _, err := p.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// generateSecureCode generates a cryptographically secure OTP code
func (p *TwilioProvider) generateSecureCode() (string, error) {
	digits := make([]byte, p.config.Length)

	for i := 0; i < p.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
