package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Token formats accepted by AUTH_TOKEN_FORMAT.
const (
	TokenFormatFernet = "fernet"
	TokenFormatJWT    = "jwt"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Brapi    BrapiConfig
	Pricing  PricingConfig

	// RealizeOnSell records realized profit/loss automatically when a SELL is created.
	RealizeOnSell bool `env:"REALIZE_ON_SELL" envDefault:"false"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"./data/wallet.db"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	Secret       string        `env:"AUTH_SECRET"`
	TokenFormat  string        `env:"AUTH_TOKEN_FORMAT" envDefault:"fernet"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"15m"`
	CookieMaxAge time.Duration `env:"AUTH_COOKIE_MAX_AGE" envDefault:"1h"`
	CookieSecure bool          `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
	ProEmail     string        `env:"PRO_EMAIL"`
}

// BrapiConfig holds settings for the brapi.dev quote API.
type BrapiConfig struct {
	URL           string        `env:"BRAPI_URL" envDefault:"https://brapi.dev"`
	Token         string        `env:"BRAPI_TOKEN"`
	Timeout       time.Duration `env:"BRAPI_TIMEOUT" envDefault:"10s"`
	RatePerSecond float64       `env:"BRAPI_RATE_PER_SECOND" envDefault:"5"`
}

// PricingConfig controls quote caching and the periodic refresh.
type PricingConfig struct {
	CacheTTL         time.Duration `env:"PRICE_CACHE_TTL" envDefault:"15m"`
	RefreshSchedule  string        `env:"PRICE_REFRESH_SCHEDULE" envDefault:"@every 15m"`
	FetchConcurrency int           `env:"PRICE_FETCH_CONCURRENCY" envDefault:"4"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Combine host and port
	cfg.Server.Addr = net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("AUTH_SECRET is required"))
	}
	switch c.Auth.TokenFormat {
	case TokenFormatFernet, TokenFormatJWT:
	default:
		errs = append(errs, fmt.Errorf("AUTH_TOKEN_FORMAT must be %q or %q, got %q", TokenFormatFernet, TokenFormatJWT, c.Auth.TokenFormat))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.Auth.CookieMaxAge < 0 {
		errs = append(errs, errors.New("AUTH_COOKIE_MAX_AGE must not be negative"))
	}
	if c.Brapi.RatePerSecond <= 0 {
		errs = append(errs, errors.New("BRAPI_RATE_PER_SECOND must be positive"))
	}
	if c.Pricing.CacheTTL <= 0 {
		errs = append(errs, errors.New("PRICE_CACHE_TTL must be positive"))
	}
	if c.Pricing.FetchConcurrency < 1 {
		errs = append(errs, errors.New("PRICE_FETCH_CONCURRENCY must be at least 1"))
	}
	if _, err := cron.ParseStandard(c.Pricing.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Errorf("PRICE_REFRESH_SCHEDULE is invalid: %w", err))
	}

	return errors.Join(errs...)
}
