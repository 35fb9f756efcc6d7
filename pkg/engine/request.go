package engine

import (
	"context"

	"github.com/matzehuels/depstatus/pkg/cache"
	"github.com/matzehuels/depstatus/pkg/integrations/github"
	"github.com/matzehuels/depstatus/pkg/manifest"
)

// ManifestSource fetches manifest text. [github.RawClient] implements it.
type ManifestSource interface {
	FetchManifest(ctx context.Context, repo github.Repo) (string, error)
}

// Request names the manifest and dependency table to check.
type Request struct {
	Owner  string
	Name   string
	Branch string // empty means the engine's default branch
	Prefix string // directory holding Cargo.toml; empty means the root
	Class  manifest.Class
	// Refresh skips the cache lookup. The fresh report is still stored.
	Refresh bool
}

// Repo returns the manifest location of r.
func (r Request) Repo() github.Repo {
	return github.Repo{Owner: r.Owner, Name: r.Name, Branch: r.Branch, Prefix: r.Prefix}
}

func (e *Engine) normalize(req Request) Request {
	if req.Branch == "" {
		req.Branch = e.branch
	}
	if req.Class == "" {
		req.Class = manifest.Primary
	}
	return req
}

func (e *Engine) cacheKey(req Request) string {
	return e.keyer.StatusKey(cache.StatusKeyOpts{
		Owner:    req.Owner,
		Name:     req.Name,
		Branch:   req.Branch,
		Prefix:   req.Prefix,
		Class:    string(req.Class),
		Resolver: e.ResolverName(),
	})
}
