// Package otp provides interchangeable OTP provider implementations
// behind the single domain.OTPGateway contract. The concrete provider is
// selected by configuration tag at construction time; near-duplicate
// per-provider code paths are deliberately avoided.
package otp

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/config"
)

// Config carries code generation and throttling settings shared by
// providers that mint codes locally
type Config struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewGateway constructs the provider named by cfg.OTPProvider. Dev mode
// activates only on the explicit "dev" tag; missing credentials never
// select it silently.
func NewGateway(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) (domain.OTPGateway, error) {
	providerCfg := Config{
		Length:       cfg.OTP_Length,
		TTL:          cfg.OTP_TTL,
		MaxAttempts:  cfg.OTP_MaxAttempts,
		ResendWindow: cfg.OTP_ResendWindow,
	}

	var gateway domain.OTPGateway
	switch cfg.OTPProvider {
	case "twilio":
		gateway = NewTwilioProvider(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, redisClient, providerCfg, logger)
	case "httpverify":
		gateway = NewHTTPVerifyProvider(cfg.HTTPVerifyBaseURL, cfg.HTTPVerifyAPIKey, cfg.HTTPVerifyTimeout)
	case "dev":
		logger.Warn().Msg("otp gateway running in development mode, codes are not delivered")
		gateway = NewDevProvider(logger)
	default:
		return nil, fmt.Errorf("unknown otp provider %q", cfg.OTPProvider)
	}

	return WithMetrics(gateway), nil
}
