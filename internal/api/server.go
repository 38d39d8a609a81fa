// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/aegis/internal/dashboard"
	"github.com/taibuivan/aegis/internal/platform/config"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/middleware"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/admin"
	"github.com/taibuivan/aegis/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, refresh and logout.
	Auth *auth.Handler

	// Admin manages accounts and their roles.
	Admin *admin.Handler

	// Plans serves emergency operation plans.
	Plans *dashboard.PlanHandler

	// Feed serves the community feed.
	Feed *dashboard.FeedHandler

	// Access reports what the caller may reach.
	Access *dashboard.AccessHandler

	// Pages serves the guarded page descriptors and the fallback 404.
	Pages *dashboard.PageHandler
}

// Sessions selects where session records persist and how they are verified.
type Sessions struct {
	Backend session.Backend
	Options []session.Option
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, sessions Sessions, h Handlers) *Server {
	r := NewRouter(context, cfg, log, sessions, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree without binding a listener.
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, sessions Sessions, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Probes run without a session.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Group(func(app chi.Router) {
		app.Use(session.Load(sessions.Backend, sessions.Options...))

		// # Application API
		// Domain-specific route groups mounted under versioned prefix.
		app.Route("/api/v1", func(api chi.Router) {
			api.Mount("/auth", h.Auth.Routes())
			api.Mount("/admin/users", h.Admin.Routes())
			api.Mount("/eops", h.Plans.Routes())
			api.Mount("/posts", h.Feed.Routes())
			api.Method(http.MethodGet, "/me/access", h.Access)
		})

		// # Pages
		// Everything else is a dashboard page decided by the route guard.
		h.Pages.Register(app)
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
