package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OTPConfig struct {
	// Provider selects the concrete gateway: "twilio", "httpverify" or
	// "dev". Dev mode is never inferred; it activates only when set here.
	Provider     string `yaml:"provider"`
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type HTTPVerifyConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	OTP        OTPConfig        `yaml:"otp"`
	Twilio     TwilioConfig     `yaml:"twilio"`
	HTTPVerify HTTPVerifyConfig `yaml:"http_verify"`
	Casbin     CasbinConfig     `yaml:"casbin"`
	Log        LogConfig        `yaml:"log"`
}

type Config struct {
	Port              string
	GinMode           string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	OTPProvider       string
	OTP_TTL           time.Duration
	OTP_Length        int
	OTP_MaxAttempts   int
	OTP_ResendWindow  time.Duration
	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	HTTPVerifyBaseURL string
	HTTPVerifyAPIKey  string
	HTTPVerifyTimeout time.Duration
	CasbinModelPath   string
	LogLevel          string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	verifyTimeout := 10 * time.Second
	if configFile.HTTPVerify.Timeout != "" {
		verifyTimeout, err = time.ParseDuration(configFile.HTTPVerify.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid http verify timeout: %w", err)
		}
	}

	provider := configFile.OTP.Provider
	if provider == "" {
		// Absence of a provider never selects dev mode
		provider = "twilio"
	}

	return &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		DSN:               configFile.Database.DSN,
		RedisAddr:         configFile.Redis.Addr,
		RedisPassword:     configFile.Redis.Password,
		RedisDB:           configFile.Redis.DB,
		OTPProvider:       provider,
		OTP_TTL:           otpTTL,
		OTP_Length:        configFile.OTP.Length,
		OTP_MaxAttempts:   configFile.OTP.MaxAttempts,
		OTP_ResendWindow:  resWnd,
		TwilioSID:         env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:        env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		HTTPVerifyBaseURL: configFile.HTTPVerify.BaseURL,
		HTTPVerifyAPIKey:  env("HTTP_VERIFY_API_KEY", configFile.HTTPVerify.APIKey),
		HTTPVerifyTimeout: verifyTimeout,
		CasbinModelPath:   configFile.Casbin.ModelPath,
		LogLevel:          configFile.Log.Level,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
