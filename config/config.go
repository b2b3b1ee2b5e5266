// Package config loads all service settings from environment variables via
// envconfig. Startup invariants (token secret length, non-empty allow-list)
// are enforced here so business logic never re-checks them.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const minSecretBytes = 32

type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	DBURL string `envconfig:"DB_URL" required:"true"`

	// TokenSecret signs access tokens. Must be at least 32 bytes; Load fails
	// otherwise so a weak secret can never reach the token issuer.
	TokenSecret string `envconfig:"TOKEN_SECRET" required:"true"`

	AccessExpiryMin  int `envconfig:"ACCESS_TOKEN_EXPIRY_MIN" default:"15"`
	RefreshExpiryDay int `envconfig:"REFRESH_TOKEN_EXPIRY_DAYS" default:"7"`

	MaxLoginAttempts     int    `envconfig:"MAX_LOGIN_ATTEMPTS" default:"5"`
	LockoutDurationMin   int    `envconfig:"LOCKOUT_DURATION_MIN" default:"15"`
	RateLimitWindowMin   int    `envconfig:"RATE_LIMIT_WINDOW_MIN" default:"15"`
	MaxAttemptsPerIP     int    `envconfig:"MAX_ATTEMPTS_PER_IP" default:"10"`
	AttemptRetentionDays int    `envconfig:"ATTEMPT_RETENTION_DAYS" default:"30"`
	LogLevel             string `envconfig:"LOG_LEVEL" default:"info"`
	AdminEmailsRaw       string `envconfig:"ADMIN_EMAILS" required:"true"`

	// AdminEmails is derived from AdminEmailsRaw: split on commas, trimmed,
	// lowercased.
	AdminEmails []string `envconfig:"-"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if len(cfg.TokenSecret) < minSecretBytes {
		return nil, fmt.Errorf("TOKEN_SECRET must be at least %d bytes, got %d", minSecretBytes, len(cfg.TokenSecret))
	}

	for _, email := range strings.Split(cfg.AdminEmailsRaw, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, email)
		}
	}
	if len(cfg.AdminEmails) == 0 {
		return nil, fmt.Errorf("ADMIN_EMAILS must contain at least one email")
	}

	return &cfg, nil
}

// IsProduction controls the Secure flag on auth cookies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsEmailWhitelisted reports whether the email is on the configured admin
// allow-list. Comparison is case-insensitive.
func (c *Config) IsEmailWhitelisted(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range c.AdminEmails {
		if allowed == email {
			return true
		}
	}
	return false
}
