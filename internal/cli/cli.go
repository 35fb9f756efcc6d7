// Package cli implements the depstatus command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depstatus/pkg/buildinfo"
	"github.com/matzehuels/depstatus/pkg/cache"
	"github.com/matzehuels/depstatus/pkg/config"
	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/integrations/crates"
	"github.com/matzehuels/depstatus/pkg/integrations/github"
	"github.com/matzehuels/depstatus/pkg/resolver"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depstatus"

	// registryCacheTTL is how long crates.io answers are reused by the
	// registry resolver.
	registryCacheTTL = time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "depstatus reports whether a Rust project's dependencies are up to date",
		Long:         `depstatus fetches a project's Cargo.toml from GitHub, lets cargo resolve it in a throwaway sandbox and compares the declared versions with what resolves today. It runs one-off checks or serves status badges over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the status cache")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig reads settings and applies the flags every command shares.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.noCache {
		cfg.Cache = config.CacheNone
	}
	return cfg, nil
}

// newEngine builds the engine and returns a cleanup func that closes the
// cache backend.
func (c *CLI) newEngine(ctx context.Context, cfg config.Config) (*engine.Engine, func(), error) {
	backend, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := backend.Close(); err != nil {
			c.Logger.Warn("close cache", "err", err)
		}
	}

	res, err := resolver.New(cfg.Resolver, resolver.Options{
		Cargo: resolver.CargoOptions{
			Binary:      cfg.Cargo,
			SandboxRoot: cfg.SandboxDir,
			Timeout:     cfg.ResolveTimeout,
			KeepSandbox: cfg.KeepSandbox,
			Logger:      c.Logger,
		},
		Crates: crates.NewClient(backend, registryCacheTTL),
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.CachePrefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.CachePrefix)
	}

	eng := engine.New(engine.Config{
		Source:        github.NewRawClient(),
		Resolver:      res,
		Cache:         backend,
		Keyer:         keyer,
		CacheTTL:      cfg.CacheTTL,
		Timeout:       cfg.CheckTimeout,
		DefaultBranch: cfg.Branch,
		Logger:        c.Logger,
	})
	return eng, closeFn, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch strings.ToLower(cfg.Cache) {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case config.CacheMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// fileCacheDir returns the configured cache directory or the XDG default.
func fileCacheDir(cfg config.Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/depstatus/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
