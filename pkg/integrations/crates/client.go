package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/depstatus/pkg/buildinfo"
	"github.com/matzehuels/depstatus/pkg/cache"
	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// CrateInfo holds version metadata for a crate.
//
// MaxStableVersion is empty when a crate only ever published pre-releases.
type CrateInfo struct {
	Name             string `json:"name"`
	MaxVersion       string `json:"max_version"`
	MaxStableVersion string `json:"max_stable_version,omitempty"`
}

// Latest returns the version cargo would pick for an unconstrained
// requirement: the newest stable release, or the newest version when no
// stable release exists.
func (i *CrateInfo) Latest() string {
	if i.MaxStableVersion != "" {
		return i.MaxStableVersion
	}
	return i.MaxVersion
}

// Client provides access to the crates.io package registry API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(backend, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a mirror or test server.
func NewClientWithBaseURL(backend cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, headers),
		baseURL: baseURL,
	}
}

// FetchCrate retrieves version metadata for a crate.
//
// The crate parameter is case-sensitive and must match the published name.
// If refresh is true, the cache is bypassed.
//
// Returns [integrations.ErrNotFound] (wrapped) if the crate doesn't exist
// and [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	if err := errs.ValidateCrateName(crate); err != nil {
		return nil, err
	}

	var info CrateInfo
	err := c.Cached(ctx, crate, refresh, &info, func() error {
		return c.fetch(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, crate), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}
	*info = CrateInfo{
		Name:             data.Crate.Name,
		MaxVersion:       data.Crate.MaxVersion,
		MaxStableVersion: data.Crate.MaxStableVersion,
	}
	return nil
}

type crateResponse struct {
	Crate struct {
		Name             string `json:"name"`
		MaxVersion       string `json:"max_version"`
		MaxStableVersion string `json:"max_stable_version"`
	} `json:"crate"`
}
