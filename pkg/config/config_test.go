package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/resolver"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depstatus.yaml")
	content := `
addr: ":9000"
branch: main
resolver: registry
resolve_timeout: 30s
cache: redis
cache_ttl: 1h
redis_addr: redis:6379
redis_db: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Branch != "main" || cfg.Resolver != resolver.KindRegistry {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ResolveTimeout != 30*time.Second || cfg.CacheTTL != time.Hour {
		t.Errorf("durations = %s, %s", cfg.ResolveTimeout, cfg.CacheTTL)
	}
	if cfg.Cache != CacheRedis || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis settings = %+v", cfg)
	}
	if cfg.Cargo != "cargo" {
		t.Errorf("unset keys should keep defaults, Cargo = %q", cfg.Cargo)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("missing file error = %v, want INVALID_CONFIG", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad YAML error = %v, want INVALID_CONFIG", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depstatus.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\ncache: file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEPSTATUS_ADDR", ":7000")
	t.Setenv("DEPSTATUS_CACHE", "none")
	t.Setenv("DEPSTATUS_CACHE_TTL", "5m")
	t.Setenv("DEPSTATUS_KEEP_SANDBOX", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.Cache != CacheNone || cfg.CacheTTL != 5*time.Minute || !cfg.KeepSandbox {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	tests := map[string]string{
		"DEPSTATUS_CACHE_TTL":     "soon",
		"DEPSTATUS_REDIS_DB":      "two",
		"DEPSTATUS_KEEP_SANDBOX":  "maybe",
		"DEPSTATUS_CHECK_TIMEOUT": "1 minute",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			lookup := func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			}
			if err := cfg.applyEnv(lookup); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("applyEnv() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DEPSTATUS_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEPSTATUS_TEST_DOTENV", "")
	os.Unsetenv("DEPSTATUS_TEST_DOTENV")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error: %v", err)
	}
	if got := os.Getenv("DEPSTATUS_TEST_DOTENV"); got != "from-file" {
		t.Errorf("DEPSTATUS_TEST_DOTENV = %q", got)
	}
	if err := loadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown resolver", func(c *Config) { c.Resolver = "pip" }},
		{"unknown cache", func(c *Config) { c.Cache = "memcached" }},
		{"bad branch", func(c *Config) { c.Branch = "a..b" }},
		{"negative timeout", func(c *Config) { c.ResolveTimeout = -time.Second }},
		{"negative check timeout", func(c *Config) { c.CheckTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
