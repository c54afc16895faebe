// Package http exposes the record ingestion, patient lookup and triage
// scoring endpoints consumed by the triage dashboards.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"triage-assistant/internal/store"
	"triage-assistant/internal/summary"
	"triage-assistant/internal/triage"
)

// Server bundles the HTTP surface and its dependencies.
type Server struct {
	router     chi.Router
	httpServer *http.Server

	summarizer *summary.Summarizer
	docs       store.DocumentStore
	triage     *triage.Service
	validate   *validator.Validate
	logger     *zap.Logger
}

// Options carries the tunables the router needs from configuration.
type Options struct {
	Addr              string
	MaxRequests       int
	RateWindowSeconds int
}

// NewServer wires the routes and middleware.
func NewServer(opts Options, summarizer *summary.Summarizer, docs store.DocumentStore, triageSvc *triage.Service, logger *zap.Logger) *Server {
	s := &Server{
		summarizer: summarizer,
		docs:       docs,
		triage:     triageSvc,
		validate:   validator.New(),
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.MaxRequests > 0 {
		window := time.Duration(opts.RateWindowSeconds) * time.Second
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(opts.MaxRequests, window))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/records", s.handleIngestRecords)
		r.Get("/patients", s.handleListPatients)
		r.Route("/patients/{patientID}", func(r chi.Router) {
			r.Get("/history", s.handlePatientHistory)
			r.Get("/summaries/{summaryKey}", s.handleGetSummary)
			r.Patch("/summaries/recent_vitals", s.handleUpdateWeight)
		})
		r.Post("/triage", s.handleTriage)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs each request with latency and status.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}
