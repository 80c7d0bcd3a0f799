// Package web provides the HTTP server and handlers for the contact API and
// the landing page.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/core"
	mw "github.com/JonMunkholm/contactdesk/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

// Server is the HTTP server for the contact service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	metrics *mw.Metrics
	redis   redis.UniversalClient
}

// Option configures a Server.
type Option func(*Server)

// WithRedis shares rate-limit counters through Redis.
func WithRedis(client redis.UniversalClient) Option {
	return func(s *Server) {
		s.redis = client
	}
}

// WithMetrics supplies the metrics registry. A fresh one is created otherwise.
func WithMetrics(m *mw.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = mw.NewMetrics()
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() error {
	s.router.Use(mw.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Security.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.APIKeyHeader, mw.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", mw.RequestIDHeader, "Retry-After"},
		MaxAge:         300,
	}))

	if s.cfg.Rate.Enabled {
		limit, err := mw.RateLimit(s.cfg.Rate.RequestsPerMinute, s.redis)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		s.router.Use(limit)
	}
	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	if dir := s.cfg.Server.StaticDir; dir != "" {
		s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}

	// Pages
	s.router.Get("/", s.handleLanding)
	s.router.Post("/contact", s.handleContactForm)

	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/contacts", s.handleListContacts)
		r.Post("/contacts", s.handleCreateContact)
		r.Post("/contacts/query", s.handleQueryContacts)
		r.Get("/contacts/{id}", s.handleGetContact)

		r.Get("/stats", s.handleStats)
		r.Get("/export/csv", s.handleExportCSV)

		// Destructive and bulk operations
		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(s.cfg.Security))
			r.Delete("/contacts/{id}", s.handleDeleteContact)
			r.Delete("/contacts", s.handleClearContacts)
			r.Post("/import/csv", s.handleImportCSV)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONStatus(w, http.StatusNotFound, errorBody{Error: "route not found", Code: "ERR404"})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("http server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Metrics returns the server's metrics registry wrapper.
func (s *Server) Metrics() *mw.Metrics {
	return s.metrics
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'")
			}
			next.ServeHTTP(w, r)
		})
	}
}
