// Package api exposes the outline extraction pipeline over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jthorne/pdfoutline/internal/config"
	"github.com/jthorne/pdfoutline/internal/pipeline"
	"github.com/jthorne/pdfoutline/internal/scorer"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	orch   *pipeline.Orchestrator
	scorer *scorer.Client // nil when no external scorer is configured
	cfg    config.Config
	log    *slog.Logger
}

func NewServer(orch *pipeline.Orchestrator, sc *scorer.Client, cfg config.Config, log *slog.Logger) *Server {
	return &Server{orch: orch, scorer: sc, cfg: cfg, log: log}
}

// Router builds the chi routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))
		r.Post("/api/outline", s.handleSubmit)
		r.Get("/api/outline/{jobID}", s.handleStatus)
		r.Get("/api/stats/scorer", s.handleScorerStats)
	})

	return r
}
