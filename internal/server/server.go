// Package server exposes the content catalog as a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/grammar"
)

// Options configures the API.
type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	Version        string
}

// Server serves sets and grammar topics from a Library.
type Server struct {
	lib     *content.Library
	logger  *slog.Logger
	version string
	router  chi.Router
	http    *http.Server
}

// New builds the router. It does not listen until Start.
func New(lib *content.Library, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{lib: lib, logger: logger, version: opts.Version}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/sets", s.handleListSets)
		ar.Get("/sets/{id}", s.handleGetSet)
		ar.Get("/grammar", s.handleGrammarIndex)
		ar.Get("/grammar/{id}", s.handleGetTopic)
		ar.Get("/grammar/{id}/text", s.handleTopicText)
	})
	s.router = r
	return s
}

// ServeHTTP lets the server be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown. It returns http.ErrServerClosed
// after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("content api listening", "addr", addr)
	return s.http.ListenAndServe()
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.logger.Info("content api shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.lib.ListSets(r.Context())
	if err != nil {
		s.contentError(w, "list sets", err)
		return
	}
	if sets == nil {
		sets = []content.SetInfo{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sets": sets})
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.lib.RawSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.contentError(w, "load set", err)
		return
	}
	s.rawJSON(w, data)
}

func (s *Server) handleGrammarIndex(w http.ResponseWriter, r *http.Request) {
	data, err := s.lib.RawIndex(r.Context())
	if err != nil {
		s.contentError(w, "load grammar index", err)
		return
	}
	s.rawJSON(w, data)
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	data, err := s.lib.RawTopic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.contentError(w, "load grammar topic", err)
		return
	}
	s.rawJSON(w, data)
}

func (s *Server) handleTopicText(w http.ResponseWriter, r *http.Request) {
	t, err := s.lib.LoadTopic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.contentError(w, "load grammar topic", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(grammar.Render(t, grammar.PlainStyles(), 0)))
}

// contentError maps library errors onto status codes.
func (s *Server) contentError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	var se *content.StatusError
	switch {
	case errors.Is(err, content.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, content.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, content.ErrListUnsupported):
		status = http.StatusNotImplemented
	case errors.Is(err, content.ErrTopicLoadInProgress):
		status = http.StatusTooManyRequests
	case errors.As(err, &se):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		s.logger.Error(message, "error", err)
	}
	s.jsonResponse(w, status, map[string]any{
		"error":   message,
		"status":  status,
		"details": err.Error(),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) rawJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
