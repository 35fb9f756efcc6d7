// Package resolver turns a manifest into the concrete versions a dependency
// resolver would select today.
//
// [Cargo] runs `cargo update` in a sandbox and reads the lock file it
// writes. [Registry] asks crates.io for the newest published version of each
// dependency and needs no toolchain. Both satisfy [Resolver], so the engine
// does not care which one answers.
package resolver

import (
	"context"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/lockfile"
	"github.com/matzehuels/depstatus/pkg/manifest"
)

// Resolver computes resolved versions for the dependencies declared in
// manifestText. deps is the already-parsed selection the caller will
// compare against; implementations may use it to limit their work.
type Resolver interface {
	Resolve(ctx context.Context, manifestText string, deps manifest.DependencySet) (lockfile.ResolvedSet, error)
}

// Func adapts a function to [Resolver].
type Func func(ctx context.Context, manifestText string, deps manifest.DependencySet) (lockfile.ResolvedSet, error)

// Resolve calls f.
func (f Func) Resolve(ctx context.Context, manifestText string, deps manifest.DependencySet) (lockfile.ResolvedSet, error) {
	return f(ctx, manifestText, deps)
}

// Named is implemented by resolvers that report a name for logs and cache
// keys.
type Named interface {
	Name() string
}

// Name returns r's name, or "custom" when r does not implement [Named].
func Name(r Resolver) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// Kinds accepted by [New].
const (
	KindCargo    = "cargo"
	KindRegistry = "registry"
)

// Options carries the dependencies of every resolver kind.
type Options struct {
	Cargo  CargoOptions
	Crates CrateFetcher
}

// New builds the resolver named by kind.
func New(kind string, opts Options) (Resolver, error) {
	switch kind {
	case "", KindCargo:
		return NewCargo(opts.Cargo), nil
	case KindRegistry:
		if opts.Crates == nil {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "registry resolver needs a crates.io client")
		}
		return NewRegistry(opts.Crates, opts.Cargo.Logger), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown resolver %q (want %s or %s)", kind, KindCargo, KindRegistry)
	}
}
