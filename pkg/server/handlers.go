package server

import (
	"encoding/json"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/depstatus/pkg/errors"
	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/manifest"
	"github.com/matzehuels/depstatus/pkg/status"
)

// Badge formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// badgeClasses maps badge basenames to dependency tables.
var badgeClasses = map[string]manifest.Class{
	"status":       manifest.Primary,
	"dev-status":   manifest.Development,
	"build-status": manifest.Build,
}

// ParseBadge splits "dev-status.svg" into its class and format.
func ParseBadge(badge string) (manifest.Class, string, bool) {
	base, format, ok := strings.Cut(badge, ".")
	if !ok || (format != FormatSVG && format != FormatPNG) {
		return "", "", false
	}
	class, ok := badgeClasses[base]
	if !ok {
		return "", "", false
	}
	return class, format, true
}

// AssetName returns the image filename for st in format.
func AssetName(st status.Status, format string) string {
	return st.String() + "." + format
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	class, format, ok := ParseBadge(chi.URLParam(r, "badge"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	req := requestFrom(r, class)
	st := status.Unknown
	report, err := s.checker.Check(r.Context(), req)
	if err != nil {
		s.logger.Error("status check failed",
			"repo", req.Repo(),
			"class", class,
			"code", errs.GetCode(err),
			"err", err,
			"id", middleware.GetReqID(r.Context()))
	} else {
		st = report.Status
	}

	s.serveAsset(w, r, AssetName(st, format))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	class, err := manifest.ParseClass(r.URL.Query().Get("class"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errs.UserMessage(err), Code: string(errs.GetCode(err))})
		return
	}

	req := requestFrom(r, class)
	report, err := s.checker.Check(r.Context(), req)
	if err != nil {
		s.logger.Warn("report failed", "repo", req.Repo(), "code", errs.GetCode(err), "err", err)
		code := http.StatusBadGateway
		if errs.Is(err, errs.ErrCodeInvalidRepo) || errs.Is(err, errs.ErrCodeInvalidInput) {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, errorBody{
			Status: status.Unknown.String(),
			Error:  errs.UserMessage(err),
			Code:   string(errs.GetCode(err)),
		})
		return
	}
	setNoCache(w.Header())
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	data, err := fs.ReadFile(s.assets, name)
	if err != nil {
		s.logger.Error("badge asset missing", "asset", name, "err", err)
		http.NotFound(w, r)
		return
	}
	h := w.Header()
	h.Set("Content-Type", mime.TypeByExtension(path.Ext(name)))
	setNoCache(h)
	_, _ = w.Write(data)
}

// setNoCache keeps image proxies such as GitHub's camo from pinning a
// stale badge.
func setNoCache(h http.Header) {
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Expires", time.Now().UTC().Format(http.TimeFormat))
}

func requestFrom(r *http.Request, class manifest.Class) engine.Request {
	q := r.URL.Query()
	return engine.Request{
		Owner:  chi.URLParam(r, "owner"),
		Name:   chi.URLParam(r, "name"),
		Branch: q.Get("branch"),
		Prefix: q.Get("path"),
		Class:  class,
	}
}

type errorBody struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
