package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/sellerhub/pkg/config"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the sellerhub service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SELLERHUB_HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"sellerhub"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"sellerhub_secret"`
	PostgresDB   string `env:"SELLERHUB_DB_NAME" envDefault:"sellerhub_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Top-sellers snapshot
	TopSellersSize         int           `env:"TOP_SELLERS_SIZE" envDefault:"10"`
	TopSellersTTL          time.Duration `env:"TOP_SELLERS_TTL" envDefault:"24h"`
	TopSellersInitialDelay time.Duration `env:"TOP_SELLERS_INITIAL_DELAY" envDefault:"1s"`
	TopSellersInterval     time.Duration `env:"TOP_SELLERS_REFRESH_INTERVAL" envDefault:"5m"`

	// Anonymous identity
	IdentityCookieName          string        `env:"IDENTITY_COOKIE_NAME" envDefault:"anonymousId"`
	IdentityCookieMaxAge        time.Duration `env:"IDENTITY_COOKIE_MAX_AGE" envDefault:"720h"`
	IdentityCookieSecure        bool          `env:"IDENTITY_COOKIE_SECURE" envDefault:"false"`
	IdentityFingerprintFallback bool          `env:"IDENTITY_FINGERPRINT_FALLBACK" envDefault:"false"`

	// Per-IP rate limit on anonymous comment and rating writes (0 disables)
	WriteRateLimitRPS   float64 `env:"WRITE_RATE_LIMIT_RPS" envDefault:"2"`
	WriteRateLimitBurst int     `env:"WRITE_RATE_LIMIT_BURST" envDefault:"10"`

	// Key clients by X-Forwarded-For/X-Real-IP; only behind a trusted proxy
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT validation of the account service's access tokens
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"user-service"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load sellerhub config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.TopSellersSize < 1 || c.TopSellersSize > 100 {
		return fmt.Errorf("TOP_SELLERS_SIZE must be between 1 and 100, got %d", c.TopSellersSize)
	}
	if c.TopSellersTTL <= 0 {
		return fmt.Errorf("TOP_SELLERS_TTL must be > 0, got %s", c.TopSellersTTL)
	}
	if c.TopSellersInterval <= 0 {
		return fmt.Errorf("TOP_SELLERS_REFRESH_INTERVAL must be > 0, got %s", c.TopSellersInterval)
	}
	if c.TopSellersInitialDelay < 0 {
		return fmt.Errorf("TOP_SELLERS_INITIAL_DELAY must be >= 0, got %s", c.TopSellersInitialDelay)
	}
	if c.WriteRateLimitRPS < 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT_RPS must be >= 0, got %f", c.WriteRateLimitRPS)
	}
	if c.WriteRateLimitRPS > 0 && c.WriteRateLimitBurst < 1 {
		return fmt.Errorf("WRITE_RATE_LIMIT_BURST must be >= 1 when rate limiting is enabled, got %d", c.WriteRateLimitBurst)
	}
	if c.IdentityCookieName == "" {
		return fmt.Errorf("IDENTITY_COOKIE_NAME is required")
	}
	if c.IdentityCookieMaxAge <= 0 {
		return fmt.Errorf("IDENTITY_COOKIE_MAX_AGE must be > 0, got %s", c.IdentityCookieMaxAge)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}
