// Package api provides the HTTP server for the stock dashboard.
//
// It serves the HTML pages (search, API-key setup, dashboard), the JSON data
// endpoints that proxy the configured market data provider, and the embedded
// static assets.
package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockdash/internal/config"
	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/internal/session"
	"github.com/seenimoa/stockdash/web"
)

// ClientFactory builds a provider client for one API key.
type ClientFactory func(apiKey string) (provider.Client, error)

// Server is the HTTP server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	registry  *provider.Registry
	info      provider.Info
	sessions  *session.Manager
	newClient ClientFactory
	pages     *template.Template
	log       zerolog.Logger
	version   string
}

// Options carries the collaborators of a Server.
type Options struct {
	Registry  *provider.Registry // required; cfg.Provider.Name must be registered
	Sessions  *session.Manager   // defaults to an in-memory manager from cfg.Session
	NewClient ClientFactory      // defaults to Registry.New with cfg.Provider settings
	Logger    zerolog.Logger
	Version   string
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Registry == nil {
		return nil, errors.New("api: provider registry is required")
	}
	info, err := opts.Registry.Get(cfg.Provider.Name)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	pages, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("api: parse templates: %w", err)
	}

	logger := opts.Logger.With().Str("component", "api").Logger()
	s := &Server{
		cfg:       cfg,
		registry:  opts.Registry,
		info:      info,
		sessions:  opts.Sessions,
		newClient: opts.NewClient,
		pages:     pages,
		log:       logger,
		version:   opts.Version,
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.sessions == nil {
		s.sessions = session.NewManager(cfg.Session, !cfg.IsDevelopment(), opts.Logger)
	}
	if s.newClient == nil {
		s.newClient = s.registryClient(provider.NewQuotaGuard(cfg.Provider.RequestsPerMinute), opts.Logger)
	}

	s.router = s.buildRouter()
	return s, nil
}

// registryClient builds clients of the configured provider. The quota guard
// is shared by every client so budgets survive across requests.
func (s *Server) registryClient(quota *provider.QuotaGuard, logger zerolog.Logger) ClientFactory {
	p := s.cfg.Provider
	return func(apiKey string) (provider.Client, error) {
		return s.registry.New(p.Name, apiKey, provider.Options{
			BaseURL:     p.BaseURL,
			Timeout:     p.Timeout,
			SearchLimit: p.SearchLimit,
			UserAgent:   "stockdash/" + s.version,
			Quota:       quota,
			Logger:      logger,
		})
	}
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Run serves HTTP on cfg.Addr() until ctx is cancelled, then shuts down
// gracefully. The session janitor runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", httpSrv.Addr).Str("provider", s.info.Name).Str("env", s.cfg.Server.Env).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.sessions.Janitor(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	// CORS
	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	r.Use(s.sessions.Middleware)

	// Health check
	r.Get("/health", s.handleHealth)

	// Pages
	r.Get("/", s.handleIndex)
	r.Get("/setup", s.handleSetupForm)
	r.Post("/setup", s.handleSetupSubmit)
	r.Get("/dashboard", s.handleDashboard)
	r.Post("/logout", s.handleLogout)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Get("/quote/{symbol}", s.handleQuote)
		r.Get("/search/{keywords}", s.handleSearch)
		r.Get("/historical/{symbol}", s.handleHistorical)

		r.Get("/providers", s.handleProviders)
		r.Get("/session", s.handleGetSession)
		r.Delete("/session", s.handleDeleteSession)
	})

	s.mountStatic(r)
	return r
}

// mountStatic serves the embedded CSS and JS under /static/.
func (s *Server) mountStatic(r chi.Router) {
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS())))
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}

// handleHealth reports liveness and the active provider.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"provider": s.info.Name,
		"env":      s.cfg.Server.Env,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
