package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/platinummonkey/courserev/pkg/database"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable
const EnvPrefix = "COURSEREV_"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envPrefix:"SERVER_"`
	Database      database.Config     `yaml:"database" envPrefix:"DATABASE_"`
	Auth          AuthConfig          `yaml:"auth" envPrefix:"AUTH_"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Observability ObservabilityConfig `yaml:"observability" envPrefix:"OBSERVABILITY_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            string        `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	// PublicURL is prepended to resource links; empty yields relative links
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`

	// Health/metrics server (separate port for probes and scraping)
	HealthPort string `yaml:"health_port" env:"HEALTH_PORT"`
}

// AuthConfig holds token and password settings
type AuthConfig struct {
	SecretKey  string        `yaml:"secret_key" env:"SECRET_KEY"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	Issuer     string        `yaml:"issuer" env:"ISSUER"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// RateLimitConfig holds the per-group request budgets
type RateLimitConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Default string `yaml:"default" env:"DEFAULT"`
	Users   string `yaml:"users" env:"USERS"`
	Writes  string `yaml:"writes" env:"WRITES"`

	// RedisURL switches to shared fixed-window limits when set
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY"`
	MaxKeys    int  `yaml:"max_keys" env:"MAX_KEYS"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`

	// Metrics
	MetricsEnabled bool `yaml:"metrics_enabled" env:"METRICS_ENABLED"`

	// OpenTelemetry
	OTelEnabled        bool    `yaml:"otel_enabled" env:"OTEL_ENABLED"`
	OTelEndpoint       string  `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"`
	OTelServiceName    string  `yaml:"otel_service_name" env:"OTEL_SERVICE_NAME"`
	OTelServiceVersion string  `yaml:"otel_service_version" env:"OTEL_SERVICE_VERSION"`
	OTelInsecure       bool    `yaml:"otel_insecure" env:"OTEL_INSECURE"`
	OTelSampleRatio    float64 `yaml:"otel_sample_ratio" env:"OTEL_SAMPLE_RATIO"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			HealthPort:      "9090",
		},
		Database: database.DefaultConfig(),
		Auth: AuthConfig{
			TokenTTL:   time.Hour,
			Issuer:     "courserev",
			BcryptCost: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Default: "100/hour",
			Users:   "40/day",
			Writes:  "100/hour",
			MaxKeys: middleware.DefaultMaxKeys,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			LogFormat:          "text",
			MetricsEnabled:     true,
			OTelEnabled:        false,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "courserev",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
			OTelSampleRatio:    1.0,
		},
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path (skipped when path is empty), then COURSEREV_* environment variables.
// A .env file in the working directory is loaded into the environment first
// without overriding variables that are already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}

	if _, err := database.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret key is required (set %sAUTH_SECRET_KEY)", EnvPrefix)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}

	for name, rate := range map[string]string{
		"default": c.RateLimit.Default,
		"users":   c.RateLimit.Users,
		"writes":  c.RateLimit.Writes,
	} {
		if _, err := middleware.ParseRate(rate); err != nil {
			return fmt.Errorf("rate limit %s: %w", name, err)
		}
	}

	if _, err := logrus.ParseLevel(c.Observability.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Observability.LogLevel)
	}
	if c.Observability.OTelEnabled && c.Observability.OTelEndpoint == "" {
		return fmt.Errorf("otel endpoint is required when tracing is enabled")
	}
	if c.Observability.OTelSampleRatio < 0 || c.Observability.OTelSampleRatio > 1 {
		return fmt.Errorf("otel sample ratio must be between 0 and 1")
	}

	return nil
}

// Addr returns the API listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// HealthAddr returns the health/metrics listen address
func (s ServerConfig) HealthAddr() string {
	return s.Host + ":" + s.HealthPort
}
