package config

import (
	"os"
	"testing"
	"time"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "APP_ENV", "HTTP_ADDR", "STORE_MODE", "MONGO_URI", "CATALOG_PAGE_SIZE", "KAFKA_BROKERS", "RETRY_BACKOFF", "REDIS_ADDR", "S3_ENDPOINT")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreMode != StoreMemory || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CatalogPageSize != 1000 {
		t.Fatalf("expected page size 1000, got %d", cfg.CatalogPageSize)
	}
	if cfg.KafkaEnabled() || cfg.RedisEnabled() || cfg.S3Enabled() {
		t.Fatal("external adapters must be off by default")
	}
	if !cfg.Local() {
		t.Fatal("dev env should use local logging")
	}
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RETRY_BACKOFF", "2s,10s")
	t.Setenv("CATALOG_PAGE_SIZE", "50")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %q", cfg.KafkaBrokers)
	}
	if len(cfg.RetryBackoff) != 2 || cfg.RetryBackoff[1] != 10*time.Second {
		t.Fatalf("unexpected backoff %v", cfg.RetryBackoff)
	}
	if cfg.CatalogPageSize != 1000 {
		t.Fatalf("page size must be raised to the minimum, got %d", cfg.CatalogPageSize)
	}
}

func TestLoadRequiresMongoURIInMongoMode(t *testing.T) {
	unset(t, "MONGO_URI")
	t.Setenv("STORE_MODE", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without MONGO_URI")
	}
	t.Setenv("STORE_MODE", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store mode")
	}
}
