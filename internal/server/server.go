package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/predefined"
	"github.com/jackzampolin/docket/internal/server/endpoints"
	"github.com/jackzampolin/docket/internal/session"
	"github.com/jackzampolin/docket/internal/svcctx"
)

// Server is the main Docket HTTP server.
// It owns the session store and the predefined link store, and runs the
// idle-session sweeper and the predefined file watcher while serving.
type Server struct {
	httpServer *http.Server
	sessions   *session.Store
	predefined *predefined.Store
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the docket home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		h, err := home.New("")
		if err != nil {
			return nil, err
		}
		cfg.Home = h
	}
	if cfg.ConfigManager == nil {
		mgr, err := config.NewManager("", cfg.Home.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ConfigManager = mgr
	}

	predefinedPath := cfg.ConfigManager.Get().PredefinedPath(cfg.Home)
	links, err := predefined.Open(predefinedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open predefined list: %w", err)
	}

	s := &Server{
		sessions:   session.NewStore(),
		predefined: links,
		configMgr:  cfg.ConfigManager,
		home:       cfg.Home,
		logger:     cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and its background workers.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	cfg := s.configMgr.Get()
	idle, err := cfg.IdleTimeout()
	if err != nil {
		s.setNotRunning()
		return err
	}
	sweep, err := cfg.SweepInterval()
	if err != nil {
		s.setNotRunning()
		return err
	}

	if s.configMgr.ConfigFile() != "" {
		s.configMgr.OnChange(func(c *config.Config) {
			s.logger.Info("configuration reloaded", "file", s.configMgr.ConfigFile())
			if c.PredefinedPath(s.home) != s.predefined.Path() {
				s.logger.Warn("predefined.path changed; restart to apply")
			}
		})
		s.configMgr.WatchConfig(s.logger)
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		s.sessions.Run(workerCtx, sweep, idle, s.logger)
	}()
	go func() {
		defer workers.Done()
		err := s.predefined.Watch(workerCtx, s.logger, nil)
		if err != nil {
			s.logger.Warn("predefined watcher stopped", "error", err)
		}
	}()

	// Services become visible to handlers only once the workers run
	s.mu.Lock()
	s.services = &svcctx.Services{
		Sessions:   s.sessions,
		Predefined: s.predefined,
		Config:     s.configMgr,
		Logger:     s.logger,
		Home:       s.home,
	}
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr,
			"predefined", s.predefined.Path(), "idle_timeout", idle)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("HTTP server error: %w", err)
		}
	}

	shutdownErr := s.shutdown()
	stopWorkers()
	workers.Wait()
	if serveErr != nil {
		return serveErr
	}
	return shutdownErr
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped", "sessions_discarded", s.sessions.Len())
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.services = nil
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Predefined returns the predefined link store.
func (s *Server) Predefined() *predefined.Store {
	return s.predefined
}

// Handler returns the HTTP handler, for tests that drive it directly.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) currentServices() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svcs := s.currentServices(); svcs != nil {
			ctx = svcctx.WithServices(ctx, svcs)
		} else {
			// Stateless endpoints still see configuration before Start
			ctx = svcctx.WithServices(ctx, &svcctx.Services{
				Config: s.configMgr,
				Logger: s.logger,
				Home:   s.home,
			})
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the stores are not being served yet.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.currentServices() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
