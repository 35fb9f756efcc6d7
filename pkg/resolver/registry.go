package resolver

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/integrations"
	"github.com/matzehuels/depstatus/pkg/integrations/crates"
	"github.com/matzehuels/depstatus/pkg/lockfile"
	"github.com/matzehuels/depstatus/pkg/manifest"
)

// CrateFetcher is the part of the crates.io client the registry resolver
// uses.
type CrateFetcher interface {
	FetchCrate(ctx context.Context, crate string, refresh bool) (*crates.CrateInfo, error)
}

// Registry resolves each declared dependency to the newest version published
// on crates.io. It does not solve requirement ranges: a dependency is
// reported out of date as soon as any newer release exists.
type Registry struct {
	crates CrateFetcher
	logger *log.Logger
}

// NewRegistry creates a registry resolver. A nil logger uses log.Default().
func NewRegistry(client CrateFetcher, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{crates: client, logger: logger}
}

// Name implements [Named].
func (r *Registry) Name() string { return KindRegistry }

// Resolve looks up every plain-version dependency. Crates the registry does
// not know (path or git dependencies, renamed packages) are left out and
// end up Unknown. Any other lookup failure aborts the resolution.
func (r *Registry) Resolve(ctx context.Context, _ string, deps manifest.DependencySet) (lockfile.ResolvedSet, error) {
	set := make(lockfile.ResolvedSet, len(deps))
	for _, name := range deps.Names() {
		if !deps[name].Simple {
			continue
		}
		info, err := r.crates.FetchCrate(ctx, name, false)
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) || errs.Is(err, errs.ErrCodeInvalidInput) {
				r.logger.Debug("crate not on registry", "crate", name, "err", err)
				continue
			}
			return nil, errs.Wrap(errs.ErrCodeResolve, err, "look up %s", name)
		}
		if v := info.Latest(); v != "" {
			set[name] = lockfile.Resolved{Name: name, Version: v}
		}
	}
	return set, nil
}
