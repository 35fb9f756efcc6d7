// Package config loads depstatus settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a YAML file (--config)
//  3. a .env file in the working directory, loaded with godotenv
//  4. DEPSTATUS_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/resolver"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "DEPSTATUS_"

// Config holds every setting of the server and CLI.
type Config struct {
	Addr   string `yaml:"addr"`
	Branch string `yaml:"branch"`

	Resolver       string        `yaml:"resolver"`
	Cargo          string        `yaml:"cargo"`
	SandboxDir     string        `yaml:"sandbox_dir"`
	KeepSandbox    bool          `yaml:"keep_sandbox"`
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
	CheckTimeout   time.Duration `yaml:"check_timeout"`

	Cache         string        `yaml:"cache"`
	CacheDir      string        `yaml:"cache_dir"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CachePrefix   string        `yaml:"cache_prefix"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database"`

	// Assets is a directory whose images replace the built-in badges.
	Assets string `yaml:"assets"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Branch:         "master",
		Resolver:       resolver.KindCargo,
		Cargo:          "cargo",
		ResolveTimeout: resolver.DefaultTimeout,
		Cache:          CacheFile,
		CacheTTL:       10 * time.Minute,
		RedisAddr:      "localhost:6379",
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "depstatus",
	}
}

// Load builds a Config from defaults, the optional YAML file at path, .env
// and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := loadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config file")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	return nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is fine.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errs.Wrap(errs.ErrCodeInvalidConfig, err, "load %s", path)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":           &c.Addr,
		"BRANCH":         &c.Branch,
		"RESOLVER":       &c.Resolver,
		"CARGO":          &c.Cargo,
		"SANDBOX_DIR":    &c.SandboxDir,
		"CACHE":          &c.Cache,
		"CACHE_DIR":      &c.CacheDir,
		"CACHE_PREFIX":   &c.CachePrefix,
		"REDIS_ADDR":     &c.RedisAddr,
		"REDIS_PASSWORD": &c.RedisPassword,
		"MONGO_URI":      &c.MongoURI,
		"MONGO_DATABASE": &c.MongoDatabase,
		"ASSETS":         &c.Assets,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"RESOLVE_TIMEOUT": &c.ResolveTimeout,
		"CHECK_TIMEOUT":   &c.CheckTimeout,
		"CACHE_TTL":       &c.CacheTTL,
	}
	for name, dst := range durations {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
		}
		*dst = d
	}

	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%sREDIS_DB", EnvPrefix)
		}
		c.RedisDB = n
	}
	if v, ok := lookup(EnvPrefix + "KEEP_SANDBOX"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%sKEEP_SANDBOX", EnvPrefix)
		}
		c.KeepSandbox = b
	}
	return nil
}

// Validate rejects unknown backends and impossible values.
func (c Config) Validate() error {
	switch c.Resolver {
	case resolver.KindCargo, resolver.KindRegistry:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "resolver must be %s or %s, got %q", resolver.KindCargo, resolver.KindRegistry, c.Resolver)
	}
	switch strings.ToLower(c.Cache) {
	case CacheNone, CacheFile, CacheRedis, CacheMongo:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache must be one of none, file, redis, mongo; got %q", c.Cache)
	}
	if c.Branch != "" {
		if err := errs.ValidateBranch(c.Branch); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "branch")
		}
	}
	if c.ResolveTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "resolve_timeout must not be negative")
	}
	if c.CheckTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "check_timeout must not be negative")
	}
	return nil
}
