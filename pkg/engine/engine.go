// Package engine runs the dependency status pipeline for one repository.
//
// A check fetches Cargo.toml, selects the requested dependency table, asks a
// [resolver.Resolver] for today's versions and folds the comparison into a
// [status.Report]:
//
//	fetch -> parse -> (nothing declared: UpToDate) -> resolve -> evaluate
//
// Finished reports are cached by repository, branch, prefix, class and
// resolver. Identical checks running at the same time share one pipeline
// run.
//
// # Usage
//
//	eng := engine.New(engine.Config{Logger: logger})
//	st := eng.Status(ctx, engine.Request{Owner: "serde-rs", Name: "serde"})
//
// [Engine.Status] never fails; infrastructure errors are logged and reported
// as [status.Unknown]. Use [Engine.Check] to see the error and the
// per-dependency breakdown.
package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/depstatus/pkg/cache"
	"github.com/matzehuels/depstatus/pkg/integrations/github"
	"github.com/matzehuels/depstatus/pkg/resolver"
)

// DefaultCacheTTL is how long a finished report is served from cache.
const DefaultCacheTTL = 10 * time.Minute

// =============================================================================
// Configuration
// =============================================================================

// Config wires an [Engine]. Every field is optional.
type Config struct {
	// Source fetches manifests. Defaults to the raw GitHub client.
	Source ManifestSource
	// Resolver computes resolved versions. Defaults to cargo with default
	// options.
	Resolver resolver.Resolver
	// Cache stores finished reports. Defaults to no caching.
	Cache cache.Cache
	// Keyer builds cache keys. Defaults to [cache.DefaultKeyer].
	Keyer cache.Keyer
	// CacheTTL is the report lifetime. Zero means [DefaultCacheTTL];
	// negative disables caching.
	CacheTTL time.Duration
	// Timeout bounds a whole check including the fetch. Zero means no
	// bound beyond the resolver's own.
	Timeout time.Duration
	// DefaultBranch is used when a request names no branch.
	DefaultBranch string
	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// =============================================================================
// Engine
// =============================================================================

// Engine runs status checks. It is safe for concurrent use.
type Engine struct {
	source   ManifestSource
	resolver resolver.Resolver
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	timeout  time.Duration
	branch   string
	logger   *log.Logger

	group singleflight.Group
}

// New creates an engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		source:   cfg.Source,
		resolver: cfg.Resolver,
		cache:    cfg.Cache,
		keyer:    cfg.Keyer,
		ttl:      cfg.CacheTTL,
		timeout:  cfg.Timeout,
		branch:   cfg.DefaultBranch,
		logger:   cfg.Logger,
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if e.source == nil {
		e.source = github.NewRawClient()
	}
	if e.resolver == nil {
		e.resolver = resolver.NewCargo(resolver.CargoOptions{Logger: e.logger})
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.keyer == nil {
		e.keyer = cache.NewDefaultKeyer()
	}
	if e.ttl == 0 {
		e.ttl = DefaultCacheTTL
	}
	if e.branch == "" {
		e.branch = github.DefaultBranch
	}
	return e
}

// ResolverName returns the name of the configured resolver.
func (e *Engine) ResolverName() string {
	return resolver.Name(e.resolver)
}
