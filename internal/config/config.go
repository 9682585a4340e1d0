package config // package config resolves runtime configuration from layered sources

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"go-simpler.org/env"
)

// Config holds all runtime configuration values. It is resolved once at
// startup and treated as read-only afterwards. Field defaults live in the
// struct tags; anything set in .env, app.env or the process environment
// overrides them in that order.
type Config struct {
	Host        string `env:"HOST" default:"0.0.0.0"`
	Port        int    `env:"PORT" default:"3000"`
	Environment string `env:"ENVIRONMENT" default:"development"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`
	CORSOrigins string `env:"CORS_ORIGINS"` // comma separated; empty allows any origin

	ServiceName string `env:"CLOUD_SERVICE_NAME" default:"colabri-doc"`
	Pod         string `env:"CLOUD_POD"`

	// Accepted for deployment parity; no handler reads them.
	JWTSecret    string `env:"CLOUD_AUTH_JWT_SECRET"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`

	DBURL    string `env:"DB_URL"`    // MySQL DSN, only pinged by the readiness probe
	RedisURL string `env:"REDIS_URL"` // enables the rate limiter and its readiness probe
	AMQPURL  string `env:"AMQP_URL"`  // enables item-created events on RabbitMQ

	RateLimitEnabled        bool          `env:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitCapacity       int           `env:"RATE_LIMIT_CAPACITY" default:"60"`
	RateLimitRefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" default:"1s"`
	RateLimitTTL            time.Duration `env:"RATE_LIMIT_TTL" default:"10m"`
	RateLimitKeyStrategy    string        `env:"RATE_LIMIT_KEY_STRATEGY" default:"ip_route"`
	RateLimitPrefix         string        `env:"RATE_LIMIT_PREFIX" default:"rl"`
	RateLimitDebug          bool          `env:"RATE_LIMIT_DEBUG" default:"false"`

	WSMaxMessageBytes int64         `env:"WS_MAX_MESSAGE_BYTES" default:"1048576"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load resolves the configuration from the given sources, lowest precedence
// first. With no sources it uses DefaultSources. The returned error is the
// only fatal condition in the service; callers are expected to exit on it.
func Load(sources ...Source) (*Config, error) {
	if len(sources) == 0 {
		sources = DefaultSources()
	}

	merged, err := Merge(sources...)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{Source: merged}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return errors.New("HOST must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.WSMaxMessageBytes <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_BYTES must be positive, got %d", cfg.WSMaxMessageBytes)
	}
	return nil
}

// ServerAddress is the host:port pair passed to the listener.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsDevelopment reports whether ENVIRONMENT names a development deployment.
func (c *Config) IsDevelopment() bool {
	e := strings.ToLower(c.Environment)
	return e == "dev" || e == "development"
}

// IsProduction reports whether ENVIRONMENT names a production deployment.
func (c *Config) IsProduction() bool {
	e := strings.ToLower(c.Environment)
	return e == "prod" || e == "production"
}

// AllowedOrigins splits CORS_ORIGINS into trimmed, non-empty entries.
// An empty result means every origin is accepted.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, p := range strings.Split(c.CORSOrigins, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
