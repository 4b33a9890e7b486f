// Package web provides the HTTP server and handlers for the shipment merge UI.
package web

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/shipmerge/internal/config"
	"github.com/JonMunkholm/shipmerge/internal/core"
	"github.com/JonMunkholm/shipmerge/internal/metrics"
	"github.com/JonMunkholm/shipmerge/internal/session"
	mw "github.com/JonMunkholm/shipmerge/internal/web/middleware"
)

// errRateLimited is reported to clients that exceed their request budget.
var errRateLimited = errors.New("rate limit exceeded")

// Server is the HTTP server for the shipment merge application.
type Server struct {
	cfg      *config.Config
	store    *session.Store
	limiter  *core.Limiter
	metrics  *metrics.Metrics
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server. The store, limiter and metrics are shared with
// the caller, which owns their lifecycle.
func NewServer(cfg *config.Config, store *session.Store, limiter *core.Limiter, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		limiter:  limiter,
		metrics:  m,
		validate: newValidator(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// newValidator reports field errors by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute).Handler(s.rateLimited))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	uploads := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		uploads = mw.NewRateLimiter(s.cfg.Rate.UploadLimit).Handler(s.rateLimited)
	}

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.With(uploads).Post("/upload", s.handleUpload)
	s.router.Route("/w/{workspaceID}", func(r chi.Router) {
		r.Get("/", s.handleWorkspace)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Post("/delete", s.handleDelete)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.With(uploads).Post("/merge", s.handleAPIMerge)
	})

	s.router.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
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

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Pages carry their stylesheet inline and load no scripts.
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
