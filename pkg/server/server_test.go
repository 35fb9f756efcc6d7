package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/status"
)

type fakeChecker struct {
	report *status.Report
	err    error
	last   engine.Request
}

func (f *fakeChecker) Check(_ context.Context, req engine.Request) (*status.Report, error) {
	f.last = req
	return f.report, f.err
}

var testAssets = fstest.MapFS{
	"uptodate.svg":  {Data: []byte("<svg>uptodate</svg>")},
	"outofdate.svg": {Data: []byte("<svg>outofdate</svg>")},
	"unknown.svg":   {Data: []byte("<svg>unknown</svg>")},
	"uptodate.png":  {Data: []byte("png-uptodate")},
	"outofdate.png": {Data: []byte("png-outofdate")},
	"unknown.png":   {Data: []byte("png-unknown")},
}

func newTestServer(c Checker) *Server {
	return New(Config{
		Checker: c,
		Assets:  testAssets,
		Logger:  log.NewWithOptions(io.Discard, log.Options{}),
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestBadge(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		report    *status.Report
		err       error
		wantBody  string
		wantType  string
		wantClass manifest.Class
	}{
		{
			name:      "primary up to date",
			path:      "/serde-rs/serde/status.svg",
			report:    &status.Report{Status: status.UpToDate},
			wantBody:  "<svg>uptodate</svg>",
			wantType:  "image/svg+xml",
			wantClass: manifest.Primary,
		},
		{
			name:      "dev out of date png",
			path:      "/serde-rs/serde/dev-status.png",
			report:    &status.Report{Status: status.OutOfDate},
			wantBody:  "png-outofdate",
			wantType:  "image/png",
			wantClass: manifest.Development,
		},
		{
			name:      "build unknown",
			path:      "/serde-rs/serde/build-status.svg",
			report:    &status.Report{Status: status.Unknown},
			wantBody:  "<svg>unknown</svg>",
			wantType:  "image/svg+xml",
			wantClass: manifest.Build,
		},
		{
			name:      "terminal error renders unknown",
			path:      "/serde-rs/serde/status.svg",
			err:       errs.New(errs.ErrCodeFetch, "404"),
			wantBody:  "<svg>unknown</svg>",
			wantType:  "image/svg+xml",
			wantClass: manifest.Primary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeChecker{report: tt.report, err: tt.err}
			rec := get(t, newTestServer(fc), tt.path)

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d, want 200", rec.Code)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
				t.Errorf("Cache-Control = %q", got)
			}
			if rec.Header().Get("Expires") == "" {
				t.Error("Expires header missing")
			}
			if fc.last.Owner != "serde-rs" || fc.last.Name != "serde" || fc.last.Class != tt.wantClass {
				t.Errorf("request = %+v", fc.last)
			}
		})
	}
}

func TestBadge_QueryOverrides(t *testing.T) {
	fc := &fakeChecker{report: &status.Report{Status: status.UpToDate}}
	get(t, newTestServer(fc), "/o/n/status.svg?branch=main&path=crates/core")

	if fc.last.Branch != "main" || fc.last.Prefix != "crates/core" {
		t.Errorf("request = %+v, want branch main and prefix crates/core", fc.last)
	}
}

func TestBadge_UnknownBadge(t *testing.T) {
	for _, path := range []string{"/o/n/status.gif", "/o/n/other.svg", "/o/n/status"} {
		rec := get(t, newTestServer(&fakeChecker{}), path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}

func TestReport(t *testing.T) {
	report := &status.Report{
		Status: status.OutOfDate,
		Entries: []status.Entry{
			{Name: "dep", Declared: "0.1.0", Resolved: "0.2.0", Status: status.OutOfDate, Reason: status.ReasonNewer},
		},
	}
	fc := &fakeChecker{report: report}
	rec := get(t, newTestServer(fc), "/o/n/report.json?class=dev")

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var got status.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != status.OutOfDate || len(got.Entries) != 1 || got.Entries[0].Resolved != "0.2.0" {
		t.Errorf("report = %+v", got)
	}
	if fc.last.Class != manifest.Development {
		t.Errorf("class = %q, want dev-dependencies", fc.last.Class)
	}
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"terminal error", "/o/n/report.json", errs.New(errs.ErrCodeResolve, "cargo failed"), http.StatusBadGateway},
		{"invalid repo", "/o/n/report.json", errs.New(errs.ErrCodeInvalidRepo, "bad"), http.StatusBadRequest},
		{"invalid class", "/o/n/report.json?class=optional", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&fakeChecker{err: tt.err}), tt.path)
			if rec.Code != tt.want {
				t.Errorf("code = %d, want %d", rec.Code, tt.want)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Errorf("error body = %q, %v", rec.Body.String(), err)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&fakeChecker{}), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDefaultAssets(t *testing.T) {
	assets := DefaultAssets()
	for _, st := range []status.Status{status.UpToDate, status.OutOfDate, status.Unknown} {
		for _, format := range []string{FormatSVG, FormatPNG} {
			f, err := assets.Open(AssetName(st, format))
			if err != nil {
				t.Errorf("missing built-in asset %s: %v", AssetName(st, format), err)
				continue
			}
			f.Close()
		}
	}
}

func TestAssetsWithOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(dir, "uptodate.svg", "<svg>custom</svg>"); err != nil {
		t.Fatal(err)
	}
	assets := AssetsWithOverrides(dir)

	rec := httptest.NewRecorder()
	s := New(Config{Checker: &fakeChecker{report: &status.Report{Status: status.UpToDate}}, Assets: assets, Logger: log.NewWithOptions(io.Discard, log.Options{})})
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/o/n/status.svg", nil))
	if rec.Body.String() != "<svg>custom</svg>" {
		t.Errorf("override not served: %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/o/n/status.png", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Errorf("built-in fallback not served: %d", rec.Code)
	}
}

func TestParseBadge(t *testing.T) {
	tests := []struct {
		in        string
		class     manifest.Class
		format    string
		wantFound bool
	}{
		{"status.svg", manifest.Primary, FormatSVG, true},
		{"dev-status.png", manifest.Development, FormatPNG, true},
		{"build-status.svg", manifest.Build, FormatSVG, true},
		{"status.jpg", "", "", false},
		{"status", "", "", false},
		{"foo.svg", "", "", false},
	}
	for _, tt := range tests {
		class, format, ok := ParseBadge(tt.in)
		if ok != tt.wantFound || class != tt.class || format != tt.format {
			t.Errorf("ParseBadge(%q) = %q, %q, %v", tt.in, class, format, ok)
		}
	}
}
