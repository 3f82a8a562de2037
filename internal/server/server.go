// Package server provides the HTTP server and routing for the dashboard.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/config"
	"github.com/irodotos/kpiboard/internal/modules/analysis"
	analysishandlers "github.com/irodotos/kpiboard/internal/modules/analysis/handlers"
	"github.com/irodotos/kpiboard/internal/modules/charts"
	chartshandlers "github.com/irodotos/kpiboard/internal/modules/charts/handlers"
	exporthandlers "github.com/irodotos/kpiboard/internal/modules/export/handlers"
	"github.com/irodotos/kpiboard/internal/modules/scenarios"
	scenarioshandlers "github.com/irodotos/kpiboard/internal/modules/scenarios/handlers"
	"github.com/irodotos/kpiboard/internal/snapshot"
	"github.com/irodotos/kpiboard/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	Snapshot *snapshot.Snapshot
	Config   *config.Config
	Port     int
	DevMode  bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	snap           *snapshot.Snapshot
	cfg            *config.Config
	port           int
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		snap:   cfg.Snapshot,
		cfg:    cfg.Config,
		port:   cfg.Port,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.SnapshotPath, cfg.Snapshot)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	// API routes. Every handler shares the one immutable snapshot; services
	// are stateless so wiring them here is the whole dependency graph.
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)

		analysisSvc := analysis.NewService(s.log)

		analysisHandler := analysishandlers.NewHandler(s.snap, analysisSvc, s.log)
		analysisHandler.RegisterRoutes(r)

		chartsHandler := chartshandlers.NewHandler(s.snap, analysisSvc, charts.NewService(s.log), s.log)
		chartsHandler.RegisterRoutes(r)

		scenariosHandler := scenarioshandlers.NewHandler(s.snap, analysisSvc, scenarios.NewService(s.log), s.log)
		scenariosHandler.RegisterRoutes(r)

		exportHandler := exporthandlers.NewHandler(s.snap, analysisSvc, s.log)
		exportHandler.RegisterRoutes(r)
	})

	s.setupStaticRoutes()
}

// setupStaticRoutes serves the embedded frontend: index.html for the root and
// any non-API path. The sub-filesystem is built once here and captured by
// both handlers.
func (s *Server) setupStaticRoutes() {
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		return
	}

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		serveIndex(w, frontendFS, s.log)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		serveIndex(w, frontendFS, s.log)
	})
}

func serveIndex(w http.ResponseWriter, frontendFS fs.FS, log zerolog.Logger) {
	indexFile, err := frontendFS.Open("index.html")
	if err != nil {
		log.Error().Err(err).Msg("Failed to open embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	defer indexFile.Close()

	data, err := io.ReadAll(indexFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleHealth is the liveness endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","annual_rows":%d}`, len(s.snap.Annual))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
