package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/depstatus/pkg/buildinfo"
	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/httputil"
	"github.com/matzehuels/depstatus/pkg/integrations"
)

const (
	// DefaultRawBaseURL is the host serving raw repository files.
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	// DefaultBranch is the branch read when a Repo leaves Branch empty.
	DefaultBranch = "master"

	// ManifestFile is the manifest filename fetched from the repository.
	ManifestFile = "Cargo.toml"
)

// Repo identifies a manifest location in a GitHub repository.
type Repo struct {
	Owner  string // Repository owner (user or organization)
	Name   string // Repository name
	Branch string // Branch; empty means DefaultBranch
	Prefix string // Directory holding Cargo.toml; empty means the repository root
}

// Validate checks every component before it is placed in a URL.
func (r Repo) Validate() error {
	if err := ValidateRepoRef(r.Owner, r.Name); err != nil {
		return err
	}
	if r.Branch != "" {
		if err := errs.ValidateBranch(r.Branch); err != nil {
			return err
		}
	}
	return errs.ValidatePath(r.Prefix)
}

// ManifestPath returns the manifest path relative to the repository root.
func (r Repo) ManifestPath() string {
	prefix := strings.Trim(r.Prefix, "/")
	if prefix == "" {
		return ManifestFile
	}
	return prefix + "/" + ManifestFile
}

// ManifestURL returns the raw URL of the manifest under baseURL.
func (r Repo) ManifestURL(baseURL string) string {
	branch := r.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", strings.TrimSuffix(baseURL, "/"), r.Owner, r.Name, branch, r.ManifestPath())
}

// String returns "owner/name".
func (r Repo) String() string { return r.Owner + "/" + r.Name }

// RawClient downloads manifests from the raw content host.
// It is safe for concurrent use.
type RawClient struct {
	*integrations.Client
	baseURL string
}

// NewRawClient creates a client for raw.githubusercontent.com.
// Manifests are never cached here; finished reports are cached by the engine.
func NewRawClient() *RawClient {
	return NewRawClientWithBaseURL(DefaultRawBaseURL)
}

// NewRawClientWithBaseURL creates a client against another host, such as a
// GitHub Enterprise raw endpoint or a test server.
func NewRawClientWithBaseURL(baseURL string) *RawClient {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
		"Accept":     "text/plain",
	}
	return &RawClient{
		Client:  integrations.NewClient(nil, "", 0, headers),
		baseURL: baseURL,
	}
}

// FetchManifest downloads the manifest text for repo.
//
// Transient failures (connection errors, 429, 5xx) are retried with
// backoff. Every failure, including a 404, is returned as a FETCH_ERROR
// whose cause chain keeps [integrations.ErrNotFound] or
// [integrations.ErrNetwork] for errors.Is checks.
func (c *RawClient) FetchManifest(ctx context.Context, repo Repo) (string, error) {
	if err := repo.Validate(); err != nil {
		return "", errs.Wrap(errs.ErrCodeFetch, err, "invalid repository %s", repo)
	}
	url := repo.ManifestURL(c.baseURL)

	var text string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = c.GetText(ctx, url)
		return err
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", errs.Wrap(errs.ErrCodeFetch, err, "%s not found in %s", repo.ManifestPath(), repo)
		}
		return "", errs.Wrap(errs.ErrCodeFetch, err, "fetch %s from %s", repo.ManifestPath(), repo)
	}
	return text, nil
}
