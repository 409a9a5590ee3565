package app

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/you/portalsvc/internal/config"
	httpx "github.com/you/portalsvc/internal/http"
	"github.com/you/portalsvc/internal/http/handlers"
	"github.com/you/portalsvc/internal/http/middleware"
)

// Run wires the container and serves HTTP until the process exits
func Run(cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	authH := handlers.NewAuthHandlers(c.AuthFlow)
	patientH := handlers.NewPatientHandlers(c.ProfileRepo, c.ReportRepo, c.Audit)
	policyH := handlers.NewPolicyHandlers(c.PolicySvc)

	sessionMW := middleware.NewSessionMW(c.SessionStore, c.Resolver)
	casbinMW := middleware.NewCasbinMW(c.Enforcer, c.Audit)

	r := httpx.BuildRouter(authH, patientH, policyH, sessionMW, casbinMW)

	seedPolicies(c, logger)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("otp_provider", cfg.OTPProvider).Msg("listening")
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default role policies on an empty policy
// store. Patients reach their own auth endpoints and the patient read
// routes; admins reach everything. The patient read policy only gates
// the path shape, ownership of the addressed record is enforced in the
// patient handlers.
func seedPolicies(c *Container, logger zerolog.Logger) {
	policies, _ := c.Enforcer.GetPolicy()
	if len(policies) > 0 {
		return
	}

	c.Enforcer.AddPolicy("role_admin", "/*", "(GET|POST|PUT|DELETE)")
	c.Enforcer.AddPolicy("role_patient", "/auth/me", "GET")
	c.Enforcer.AddPolicy("role_patient", "/auth/logout", "POST")
	c.Enforcer.AddPolicy("role_patient", "/patients/*", "GET")
	if err := c.Enforcer.SavePolicy(); err != nil {
		logger.Warn().Err(err).Msg("casbin: failed to persist seeded policies")
		return
	}
	logger.Info().Msg("casbin: seeded default policies")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
