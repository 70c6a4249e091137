package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all client configuration loaded from environment variables.
type Config struct {
	App     AppConfig
	API     APIConfig
	Cache   CacheConfig
	Session SessionConfig
	Proxy   ProxyConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"ims-client"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
}

// APIConfig holds settings for the inventory backend.
type APIConfig struct {
	// BaseURL is the configured backend base. It may be wrong in
	// misconfigured environments, which is why FallbackURL exists.
	BaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`

	// FallbackURL is the absolute last-resort base tried once after every
	// candidate against BaseURL has failed.
	FallbackURL string `envconfig:"API_FALLBACK_URL" default:"http://localhost:8080/api"`

	// RequestTimeout applies per attempt, not per logical operation. A fully
	// failing configuration takes the sum of all attempts' timeouts.
	RequestTimeout time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"15s"`
}

// CacheConfig holds cache settings for fetched lists.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig holds settings for the persisted session store.
type SessionConfig struct {
	Path string `envconfig:"SESSION_DB_PATH" default:"./data/session.db"`
}

// ProxyConfig holds settings for the development proxy.
type ProxyConfig struct {
	Listen string `envconfig:"PROXY_LISTEN" default:":3000"`
	Target string `envconfig:"PROXY_TARGET" default:"http://localhost:8080/api"`
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
