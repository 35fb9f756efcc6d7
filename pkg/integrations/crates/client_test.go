package crates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/depstatus/pkg/cache"
	"github.com/matzehuels/depstatus/pkg/integrations"
)

func TestNewClient(t *testing.T) {
	c := NewClient(cache.NewNullCache(), time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestClient_FetchCrate(t *testing.T) {
	var resp crateResponse
	resp.Crate.Name = "serde"
	resp.Crate.MaxVersion = "1.1.0-rc.1"
	resp.Crate.MaxStableVersion = "1.0.210"

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/crates/serde" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClientWithBaseURL(cache.NewNullCache(), time.Hour, server.URL)
	info, err := c.FetchCrate(context.Background(), "serde", true)
	if err != nil {
		t.Fatalf("FetchCrate failed: %v", err)
	}
	if info.Name != "serde" {
		t.Errorf("expected name serde, got %s", info.Name)
	}
	if info.Latest() != "1.0.210" {
		t.Errorf("Latest() = %s, want 1.0.210", info.Latest())
	}
	if userAgent == "" {
		t.Error("crates.io requires a User-Agent header")
	}
}

func TestCrateInfo_LatestFallsBackToMaxVersion(t *testing.T) {
	info := CrateInfo{Name: "fresh", MaxVersion: "0.1.0-alpha.1"}
	if info.Latest() != "0.1.0-alpha.1" {
		t.Errorf("Latest() = %s", info.Latest())
	}
}

func TestClient_FetchCrate_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClientWithBaseURL(cache.NewNullCache(), time.Hour, server.URL)
	_, err := c.FetchCrate(context.Background(), "nonexistent", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_FetchCrate_Cached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var resp crateResponse
		resp.Crate.Name = "rand"
		resp.Crate.MaxVersion = "0.8.5"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClientWithBaseURL(fc, time.Hour, server.URL)

	for i := 0; i < 3; i++ {
		if _, err := c.FetchCrate(context.Background(), "rand", false); err != nil {
			t.Fatalf("FetchCrate: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}

func TestClient_FetchCrate_InvalidName(t *testing.T) {
	c := NewClientWithBaseURL(cache.NewNullCache(), time.Hour, "http://127.0.0.1:0")
	if _, err := c.FetchCrate(context.Background(), "../admin", false); err == nil {
		t.Error("expected validation error")
	}
}
