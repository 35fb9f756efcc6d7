// Package server exposes dependency status badges over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /{owner}/{name}/status.{svg,png}         [dependencies]
//	GET /{owner}/{name}/dev-status.{svg,png}     [dev-dependencies]
//	GET /{owner}/{name}/build-status.{svg,png}   [build-dependencies]
//	GET /{owner}/{name}/report.json              per-dependency report
//
// Badge routes accept ?branch= and ?path= to select the manifest. A badge
// always renders: any failure shows the "unknown" image, and the cause is
// logged rather than returned.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/status"
)

// Checker runs status checks. [engine.Engine] implements it.
type Checker interface {
	Check(ctx context.Context, req engine.Request) (*status.Report, error)
}

// Config wires a [Server].
type Config struct {
	Checker Checker
	// Assets holds "<status>.<format>" images. Defaults to [DefaultAssets].
	Assets fs.FS
	Logger *log.Logger
	// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
	ShutdownTimeout time.Duration
}

// Server is the badge HTTP handler.
type Server struct {
	router   chi.Router
	checker  Checker
	assets   fs.FS
	logger   *log.Logger
	shutdown time.Duration
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		checker:  cfg.Checker,
		assets:   cfg.Assets,
		logger:   cfg.Logger,
		shutdown: cfg.ShutdownTimeout,
	}
	if s.assets == nil {
		s.assets = DefaultAssets()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.shutdown <= 0 {
		s.shutdown = 10 * time.Second
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/{owner}/{name}/report.json", s.handleReport)
	s.router.Get("/{owner}/{name}/{badge}", s.handleBadge)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
