// Package server provides the HTTP transport for the MCP tool surface.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"usaspending-mcp/internal/tools"
	"usaspending-mcp/internal/usaspending"
)

// Config contains the HTTP server settings.
type Config struct {
	Port     string
	Token    string
	CacheTTL time.Duration
}

// Server wires the router, registry, and reference-data cache together.
type Server struct {
	cfg      Config
	router   *chi.Mux
	registry *tools.Registry
	cache    *Cache
	log      zerolog.Logger
}

// callRequest is the body of POST /mcp/call.
type callRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, registry *tools.Registry, log zerolog.Logger) *Server {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 12 * time.Hour
	}
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: registry,
		cache:    NewCache(),
		log:      log,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
		r.Post("/scheduled", s.handleScheduled)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.Descriptors()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body"})
		return
	}
	var req callRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	cacheKey, cacheable := s.cacheKey(req)
	if cacheable {
		if v, ok := s.cache.Get(cacheKey); ok {
			writeJSON(w, http.StatusOK, map[string]any{"result": v, "cached": true})
			return
		}
	}

	result, err := s.registry.Dispatch(r.Context(), req.Name, req.Arguments)
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}
	if cacheable {
		s.cache.Set(cacheKey, result, s.cfg.CacheTTL)
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// handleScheduled is called by an external scheduler (or the cron warmer)
// to refresh the reference-data cache.
func (s *Server) handleScheduled(w http.ResponseWriter, r *http.Request) {
	if err := s.WarmReferenceCache(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reference cache warmed"})
}

// WarmReferenceCache dispatches the reference tools and stores their
// results so interactive calls hit the cache.
func (s *Server) WarmReferenceCache(ctx context.Context) error {
	for _, name := range tools.ReferenceToolNames {
		result, err := s.registry.Dispatch(ctx, name, nil)
		if err != nil {
			return err
		}
		s.cache.Set(name, result, s.cfg.CacheTTL)
		s.log.Debug().Str("tool", name).Msg("reference cache warmed")
	}
	return nil
}

// cacheKey reports whether a call is cacheable. Only the argument-free
// reference tools are; search results never come from cache.
func (s *Server) cacheKey(req callRequest) (string, bool) {
	for _, name := range tools.ReferenceToolNames {
		if req.Name == name && emptyArgs(req.Arguments) {
			return name, true
		}
	}
	return "", false
}

func emptyArgs(args json.RawMessage) bool {
	trimmed := bytes.TrimSpace(args)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null"))
}

func (s *Server) writeDispatchError(w http.ResponseWriter, err error) {
	var (
		verr *tools.ValidationError
		serr *usaspending.StatusError
	)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid tool arguments",
			"tool":   verr.Tool,
			"fields": verr.Fields,
		})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":           "upstream error",
			"upstream_status": serr.Code,
			"message":         serr.Body,
		})
	case errors.Is(err, usaspending.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
