package app

import (
	"github.com/casbin/casbin/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/config"
	"github.com/you/portalsvc/internal/infrastructure/audit"
	"github.com/you/portalsvc/internal/infrastructure/auth"
	"github.com/you/portalsvc/internal/infrastructure/database"
	"github.com/you/portalsvc/internal/infrastructure/otp"
	"github.com/you/portalsvc/internal/infrastructure/repositories"
	"github.com/you/portalsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger zerolog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Enforcer    *casbin.Enforcer
	Audit       domain.AuditLogger

	// Repositories
	ProfileRepo    domain.ProfileRepository
	ReportRepo     domain.ReportRepository
	SessionStore   domain.SessionStore
	ChallengeStore domain.ChallengeStore
	RoleCache      domain.RoleCache

	// Services
	Gateway   domain.OTPGateway
	Resolver  domain.ProfileResolver
	AuthFlow  domain.AuthFlow
	PolicySvc domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	if err := c.initCasbin(); err != nil {
		return nil, err
	}

	c.initRepositories()

	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initCasbin() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Enforcer = cas.E
	return nil
}

func (c *Container) initRepositories() {
	c.ProfileRepo = repositories.NewProfileRepository(c.DB)
	c.ReportRepo = repositories.NewReportRepository(c.DB)
	c.SessionStore = repositories.NewSessionRepository(c.RedisClient)
	c.ChallengeStore = repositories.NewChallengeStore(c.RedisClient, c.Config.OTP_TTL)
	c.RoleCache = repositories.NewRoleCache(c.RedisClient)
}

func (c *Container) initServices() error {
	c.Audit = audit.NewLogger(c.Logger)

	gateway, err := otp.NewGateway(c.Config, c.RedisClient, c.Logger)
	if err != nil {
		return err
	}
	c.Gateway = gateway

	c.Resolver = services.NewProfileResolver(c.ProfileRepo, c.RoleCache, c.Audit, c.Logger)
	c.AuthFlow = services.NewAuthFlowService(
		c.Gateway,
		c.ChallengeStore,
		c.SessionStore,
		c.Resolver,
		c.RedisClient,
		c.Audit,
		c.Config.OTP_TTL,
	)
	c.PolicySvc = services.NewPolicyService(c.Enforcer)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
