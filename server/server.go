// Package server exposes an Explorer over HTTP.
//
// Routes:
//
//	GET /versions                     catalog
//	GET /versions/{version}           single view
//	GET /intersect?min=&max=          range intersection
//	GET /difference?older=&newer=     pairwise difference
//	GET /current                      latest published view
//	GET /current/export               latest view as a JSON attachment
//	GET /healthz                      liveness
//	GET /metrics                      Prometheus metrics (optional)
//
// Versions are addressed by index, version label or display name. Result
// endpoints return the export artifact as an attachment with download=1.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/catalog"
	"github.com/hupe1980/modelcompat/model"
)

// Server serves the HTTP API.
type Server struct {
	explorer *modelcompat.Explorer
	logger   *modelcompat.Logger
	metrics  http.Handler
	now      func() time.Time
	router   *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *modelcompat.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithClock overrides the clock used for model ages.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Server for ex.
func New(ex *modelcompat.Explorer, optFns ...Option) *Server {
	s := &Server{
		explorer: ex,
		logger:   modelcompat.NoopLogger(),
		now:      time.Now,
	}
	for _, fn := range optFns {
		fn(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/versions", s.handleVersions)
	r.Get("/versions/{version}", s.handleSingle)
	r.Get("/intersect", s.handleIntersect)
	r.Get("/difference", s.handleDifference)
	r.Route("/current", func(r chi.Router) {
		r.Get("/", s.handleCurrent)
		r.Get("/export", s.handleCurrentExport)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.InfoContext(ctx, "server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type versionResponse struct {
	Index int `json:"index"`
	model.VersionDescriptor
}

func (s *Server) handleVersions(w http.ResponseWriter, _ *http.Request) {
	versions := s.explorer.Catalog().Versions()
	out := make([]versionResponse, len(versions))
	for i, v := range versions {
		out[i] = versionResponse{Index: i, VersionDescriptor: v}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSingle(w http.ResponseWriter, r *http.Request) {
	idx, err := s.explorer.Catalog().Resolve(chi.URLParam(r, "version"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.explorer.Single(r.Context(), idx)
	s.respond(w, r, v, err)
}

func (s *Server) handleIntersect(w http.ResponseWriter, r *http.Request) {
	lo, hi, err := s.resolvePair(r, "min", "max")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.explorer.Intersect(r.Context(), lo, hi)
	s.respond(w, r, v, err)
}

func (s *Server) handleDifference(w http.ResponseWriter, r *http.Request) {
	older, newer, err := s.resolvePair(r, "older", "newer")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.explorer.Difference(r.Context(), older, newer)
	s.respond(w, r, v, err)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	v, ok := s.explorer.Current()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no result published yet"})
		return
	}
	s.respond(w, r, v, nil)
}

func (s *Server) handleCurrentExport(w http.ResponseWriter, r *http.Request) {
	v, ok := s.explorer.Current()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no result published yet"})
		return
	}
	s.writeAttachment(w, r, v)
}

func (s *Server) resolvePair(r *http.Request, a, b string) (int, int, error) {
	q := r.URL.Query()
	if q.Get(a) == "" || q.Get(b) == "" {
		return 0, 0, &badRequestError{msg: fmt.Sprintf("query parameters %q and %q are required", a, b)}
	}
	c := s.explorer.Catalog()
	first, err := c.Resolve(q.Get(a))
	if err != nil {
		return 0, 0, err
	}
	second, err := c.Resolve(q.Get(b))
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v modelcompat.View, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("download") == "1" {
		s.writeAttachment(w, r, v)
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(v, s.now()))
}

func (s *Server) writeAttachment(w http.ResponseWriter, r *http.Request, v modelcompat.View) {
	if len(v.Models) == 0 {
		s.writeError(w, r, modelcompat.ErrEmptyResult)
		return
	}
	data, err := modelcompat.MarshalJSON(v.Models)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", v.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type errorResponse struct {
	Error  string `json:"error"`
	Source string `json:"source,omitempty"`
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var bre *badRequestError
	var sle *modelcompat.SnapshotLoadError
	switch {
	case errors.As(err, &bre):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownVersion), errors.Is(err, modelcompat.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, modelcompat.ErrEmptyResult):
		status = http.StatusNotFound
	case errors.As(err, &sle):
		status = http.StatusBadGateway
		resp.Source = sle.SourceID
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
