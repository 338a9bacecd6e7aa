package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/config"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

// InterchangeLister reads back recently stored interchanges.
type InterchangeLister interface {
	ListInterchanges(ctx context.Context, limit int) ([]projector.InterchangeRow, error)
}

// Server is the HTTP API server for EDI ingestion.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        InterchangeLister
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. store may be nil when no
// queryable sink is configured.
func NewServer(orch *pipeline.Orchestrator, store InterchangeLister, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Post("/api/events", s.handleStorageEvent)
		r.Post("/api/parse", s.handleParse)
		r.Get("/api/interchanges", s.handleListInterchanges)
		r.Get("/api/stats/ingest", s.handleIngestStats)
	})

	s.router = r
}

func (s *Server) transformOptions() pipeline.TransformOptions {
	return pipeline.TransformOptions{
		Delimiters:       s.cfg.Delimiters(),
		DetectDelimiters: s.cfg.DetectDelimiters,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
