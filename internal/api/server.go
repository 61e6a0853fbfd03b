// Package api is the thin HTTP surface over the offer pipeline.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/pipeline"
)

// Options configures a Server. Stats may be nil.
type Options struct {
	Port           int
	APIToken       string
	MaxUploadBytes int64
	Provider       string
	Stats          *llm.Stats
}

type Server struct {
	router   *chi.Mux
	pipeline *pipeline.Pipeline
	opts     Options
	logger   *slog.Logger
	srv      *http.Server
}

func NewServer(p *pipeline.Pipeline, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		pipeline: p,
		opts:     opts,
		logger:   logger,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIToken))

		r.Get("/api/v1/offerdesk/status", s.status)
		r.Get("/api/v1/stats/llm", s.llmStats)

		r.Route("/api/v1/profiles", func(r chi.Router) {
			r.Post("/", s.createProfile)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getProfile)
				r.Put("/", s.putProfile)
				r.Post("/facts", s.ingestFacts)
				r.Post("/case-studies", s.ingestCaseStudies)
				r.Post("/style-examples", s.addStyleExample)
				r.Post("/documents", s.ingestDocument)
				r.Post("/import", s.importProfile)
				r.Get("/audit", s.audit)
				r.Get("/audit/live", s.auditLive)
				r.Post("/offers", s.draftOffer)
				r.Get("/offers", s.listOffers)
			})
		})

		r.Route("/api/v1/offers/{id}", func(r chi.Router) {
			r.Get("/", s.getOffer)
			r.Patch("/", s.patchOffer)
			r.Post("/render", s.renderOffer)
			r.Post("/duplicate", s.duplicateOffer)
			r.Post("/send", s.sendOffer)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":    "offerdesk",
		"status":   "ok",
		"provider": s.opts.Provider,
	})
}

func (s *Server) llmStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.Stats == nil {
		writeJSON(w, http.StatusOK, llm.StatsSnapshot{})
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Stats.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
