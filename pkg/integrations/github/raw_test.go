package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/integrations"
)

func TestRepo_ManifestURL(t *testing.T) {
	tests := []struct {
		name string
		repo Repo
		want string
	}{
		{
			name: "root manifest default branch",
			repo: Repo{Owner: "serde-rs", Name: "serde"},
			want: "https://raw.githubusercontent.com/serde-rs/serde/master/Cargo.toml",
		},
		{
			name: "prefix",
			repo: Repo{Owner: "serde-rs", Name: "serde", Prefix: "serde_derive"},
			want: "https://raw.githubusercontent.com/serde-rs/serde/master/serde_derive/Cargo.toml",
		},
		{
			name: "prefix with slashes and branch",
			repo: Repo{Owner: "tokio-rs", Name: "tokio", Branch: "main", Prefix: "/tokio/"},
			want: "https://raw.githubusercontent.com/tokio-rs/tokio/main/tokio/Cargo.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.repo.ManifestURL(DefaultRawBaseURL); got != tt.want {
				t.Errorf("ManifestURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawClient_FetchManifest(t *testing.T) {
	const manifest = "[package]\nname = \"demo\"\n"
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(manifest))
	}))
	defer server.Close()

	c := NewRawClientWithBaseURL(server.URL)
	text, err := c.FetchManifest(context.Background(), Repo{Owner: "alice", Name: "demo", Prefix: "crates/core"})
	if err != nil {
		t.Fatalf("FetchManifest() error: %v", err)
	}
	if text != manifest {
		t.Errorf("FetchManifest() = %q, want %q", text, manifest)
	}
	if gotPath != "/alice/demo/master/crates/core/Cargo.toml" {
		t.Errorf("requested path = %q", gotPath)
	}
}

func TestRawClient_FetchManifest_NotFound(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewRawClientWithBaseURL(server.URL)
	_, err := c.FetchManifest(context.Background(), Repo{Owner: "alice", Name: "missing"})
	if !errs.Is(err, errs.ErrCodeFetch) {
		t.Fatalf("error = %v, want FETCH_ERROR", err)
	}
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error should wrap ErrNotFound: %v", err)
	}
	if calls != 1 {
		t.Errorf("404 should not be retried, calls = %d", calls)
	}
}

func TestRawClient_FetchManifest_RetriesServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("[package]\n"))
	}))
	defer server.Close()

	c := NewRawClientWithBaseURL(server.URL)
	if _, err := c.FetchManifest(context.Background(), Repo{Owner: "alice", Name: "demo"}); err != nil {
		t.Fatalf("FetchManifest() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRawClient_FetchManifest_TooLarge(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("[package]\nname = \"huge\"\n" + strings.Repeat("# padding\n", 1<<19)))
	}))
	defer server.Close()

	c := NewRawClientWithBaseURL(server.URL)
	_, err := c.FetchManifest(context.Background(), Repo{Owner: "alice", Name: "huge"})
	if !errs.Is(err, errs.ErrCodeFetch) {
		t.Fatalf("error = %v, want FETCH_ERROR", err)
	}
	if !errors.Is(err, integrations.ErrTooLarge) {
		t.Errorf("error should wrap ErrTooLarge: %v", err)
	}
	if calls != 1 {
		t.Errorf("oversized body should not be retried, calls = %d", calls)
	}
}

func TestRawClient_FetchManifest_InvalidRepo(t *testing.T) {
	c := NewRawClientWithBaseURL("http://127.0.0.1:0")
	_, err := c.FetchManifest(context.Background(), Repo{Owner: "../etc", Name: "passwd"})
	if !errs.Is(err, errs.ErrCodeFetch) || !errs.Is(err, errs.ErrCodeInvalidRepo) {
		t.Errorf("error = %v, want FETCH_ERROR wrapping INVALID_REPO", err)
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"serde-rs/serde", "serde-rs", "serde", false},
		{"rust-lang/rust.vim", "rust-lang", "rust.vim", false},
		{"serde", "", "", true},
		{"/serde", "", "", true},
		{"serde-rs/", "", "", true},
		{"a/b/c", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoRef(%q) = %q, %q", tt.ref, owner, repo)
			}
		})
	}
}
