package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	minCatalogPageSize = 1000
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	StoreMode string `envconfig:"STORE_MODE" default:"memory"`

	MongoURI string `envconfig:"MONGO_URI"`
	MongoDB  string `envconfig:"MONGO_DB" default:"stayhub"`

	CatalogPageSize int           `envconfig:"CATALOG_PAGE_SIZE" default:"1000"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"30s"`

	KafkaBrokers       []string        `envconfig:"KAFKA_BROKERS"`
	KafkaTopicPrefix   string          `envconfig:"KAFKA_TOPIC_PREFIX"`
	OutboxPollInterval time.Duration   `envconfig:"OUTBOX_POLL_INTERVAL" default:"500ms"`
	RetryBackoff       []time.Duration `envconfig:"RETRY_BACKOFF" default:"1s,5s,30s"`
	IdempotencyTTL     time.Duration   `envconfig:"IDEMP_TTL" default:"168h"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	S3Endpoint       string `envconfig:"S3_ENDPOINT"`
	S3PublicEndpoint string `envconfig:"S3_PUBLIC_ENDPOINT"`
	S3AccessKey      string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey      string `envconfig:"S3_SECRET_KEY"`
	S3Bucket         string `envconfig:"S3_BUCKET" default:"stayhub-photos"`
	S3UseSSL         bool   `envconfig:"S3_USE_SSL" default:"false"`

	RateLimitPerMin    int    `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
	CompletionSchedule string `envconfig:"COMPLETION_SCHEDULE" default:"@every 1h"`
	PropertyFixtures   string `envconfig:"PROPERTY_FIXTURES"`
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.StoreMode = strings.ToLower(strings.TrimSpace(c.StoreMode))
	switch c.StoreMode {
	case "":
		c.StoreMode = StoreMemory
	case StoreMemory, StoreMongo:
	default:
		return Config{}, fmt.Errorf("config: STORE_MODE must be %q or %q, got %q", StoreMemory, StoreMongo, c.StoreMode)
	}
	if c.StoreMode == StoreMongo && strings.TrimSpace(c.MongoURI) == "" {
		return Config{}, fmt.Errorf("config: MONGO_URI is required when STORE_MODE=mongo")
	}
	if c.CatalogPageSize < minCatalogPageSize {
		c.CatalogPageSize = minCatalogPageSize
	}
	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
	if c.S3PublicEndpoint == "" {
		c.S3PublicEndpoint = c.S3Endpoint
	}
	if c.RateLimitPerMin < 0 {
		return Config{}, fmt.Errorf("config: RATE_LIMIT_PER_MIN must not be negative")
	}
	return c, nil
}

// Local reports whether logs should be human readable.
func (c Config) Local() bool {
	return c.Env == "dev" || c.Env == "local"
}

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }
func (c Config) RedisEnabled() bool { return strings.TrimSpace(c.RedisAddr) != "" }
func (c Config) S3Enabled() bool    { return strings.TrimSpace(c.S3Endpoint) != "" }
