// Package server exposes the scoring engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/J-cmar/hedgebets/internal/config"
	"github.com/J-cmar/hedgebets/internal/metrics"
	"github.com/J-cmar/hedgebets/internal/ml"
	"github.com/J-cmar/hedgebets/internal/scoring"
)

// Server is the HedgeBets API server.
type Server struct {
	cfg    *config.Config
	scorer *scoring.Scorer
	model  ml.Client
	logger *logrus.Logger
	server *http.Server
}

// New creates the API server. The model client may be nil, in which case
// the prediction endpoint responds 503.
func New(cfg *config.Config, scorer *scoring.Scorer, model ml.Client, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		scorer: scorer,
		model:  model,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Routes returns the HTTP handler tree, exposed for tests that mount the
// API without binding a listener.
func (s *Server) Routes() http.Handler {
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/predict", s.handlePredict)
		r.Get("/stats", s.handleStats)
	})

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	return r
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr":        s.server.Addr,
		"environment": s.cfg.App.Environment,
	}).Info("API server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}
