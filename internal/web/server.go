// Package web provides the HTTP API and the browser client for Omakase Shuffle.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	HealthCheckRoute   = "/healthz"
	ResolveArtistRoute = "/api/resolve-artist"
	RandomTrackRoute   = "/api/random-track"
	SavedArtistRoute   = "/api/saved-artist"

	staticPrefix = "/static/"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr           string
	Service        ShuffleService
	SavedArtists   SavedArtistStore // defaults to an in-memory store
	Market         string
	RequestTimeout time.Duration
	TemplatesFS    fs.FS
	StaticFS       fs.FS
	Logger         *zerolog.Logger // defaults to the global logger
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	handlers  *Handlers
	logger    zerolog.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("web: nil shuffle service")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	saved := cfg.SavedArtists
	if saved == nil {
		saved = NewMemorySavedArtistStore()
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handlers := NewHandlers(cfg.Service, saved, templates,
		WithMarket(cfg.Market),
		WithRequestTimeout(cfg.RequestTimeout),
	)

	s := &Server{
		router:    chi.NewRouter(),
		templates: templates,
		handlers:  handlers,
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	// Leave headroom over the core timeout so handlers can still answer.
	writeTimeout := 15 * time.Second
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + 5*time.Second
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	s.router.NotFound(notFound)
	s.router.MethodNotAllowed(methodNotAllowed())

	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle(staticPrefix+"*", http.StripPrefix(staticPrefix, fileServer))
	}

	s.router.Get("/", s.handlers.Home)
	s.router.Get(HealthCheckRoute, s.handlers.Healthz)

	s.router.Route(ResolveArtistRoute, func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(http.MethodPost))
		r.Post("/", s.handlers.ResolveArtist)
	})

	s.router.Route(RandomTrackRoute, func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(http.MethodGet))
		r.Get("/", s.handlers.RandomTrack)
	})

	s.router.Route(SavedArtistRoute, func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(http.MethodGet, http.MethodPut, http.MethodDelete))
		r.Get("/", s.handlers.GetSavedArtist)
		r.Put("/", s.handlers.PutSavedArtist)
		r.Delete("/", s.handlers.DeleteSavedArtist)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msgf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}
