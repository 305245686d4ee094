// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BackendURL    string `env:"TMSITE_BACKEND_URL,required"`
	SessionSecret string `env:"TMSITE_SESSION_SECRET,required"`
	ServerHost    string `env:"TMSITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TMSITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TMSITE_ENV" envDefault:"development"`
	LogLevel      string `env:"TMSITE_LOG_LEVEL" envDefault:"info"`
	DBPath        string `env:"TMSITE_DB_PATH" envDefault:"./data/sessions.db"`

	// Backend API client
	APITimeout time.Duration `env:"TMSITE_API_TIMEOUT" envDefault:"10s"`

	// Admin session
	SessionLifetime time.Duration `env:"TMSITE_SESSION_LIFETIME" envDefault:"24h"`
	VerifyInterval  time.Duration `env:"TMSITE_VERIFY_INTERVAL" envDefault:"5m"`

	// Public content cache
	RedisURL     string `env:"TMSITE_REDIS_URL"`                            // Optional Redis URL for shared caching
	CachePrefix  string `env:"TMSITE_CACHE_PREFIX" envDefault:"tmsite:"`    // Redis key prefix
	CacheTTL     int    `env:"TMSITE_CACHE_TTL" envDefault:"300"`           // Live content TTL in seconds
	CacheMaxSize int    `env:"TMSITE_CACHE_MAX_SIZE" envDefault:"1000"`     // Max memory cache entries
	WarmSchedule string `env:"TMSITE_WARM_SCHEDULE" envDefault:"@every 5m"` // Cron spec for cache warming

	// Search engines
	SiteURL         string `env:"TMSITE_SITE_URL"`         // Public origin; derived from the request when empty
	SiteDescription string `env:"TMSITE_SITE_DESCRIPTION"` // Home meta description override
	OGImage         string `env:"TMSITE_OG_IMAGE"`         // Share image, absolute or site-relative
	NoIndex         bool   `env:"TMSITE_NOINDEX" envDefault:"false"`

	// Deep links
	WhatsAppCountryCode string `env:"TMSITE_WHATSAPP_COUNTRY_CODE" envDefault:"55"`

	// Lead webhook
	LeadWebhookURL          string `env:"TMSITE_LEAD_WEBHOOK_URL"`    // Optional endpoint notified of new leads
	LeadWebhookSecret       string `env:"TMSITE_LEAD_WEBHOOK_SECRET"` // HMAC-SHA256 signing key
	LeadWebhookAllowPrivate bool   `env:"TMSITE_LEAD_WEBHOOK_ALLOW_PRIVATE" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseLeadWebhook returns true if new leads are forwarded to a webhook.
func (c Config) UseLeadWebhook() bool {
	return c.LeadWebhookURL != ""
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// LogLevelValue maps LogLevel to a slog.Level, defaulting to info.
func (c Config) LogLevelValue() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("TMSITE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("TMSITE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("TMSITE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("TMSITE_BACKEND_URL must not be blank")
	}
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if cfg.SiteURL != "" && !strings.HasPrefix(cfg.SiteURL, "http://") && !strings.HasPrefix(cfg.SiteURL, "https://") {
		return nil, fmt.Errorf("TMSITE_SITE_URL must be an absolute http(s) URL, got %q", cfg.SiteURL)
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("TMSITE_API_TIMEOUT must be positive, got %s", cfg.APITimeout)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
