// Package server hosts the goms HTTP API.
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

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/internal/config"
	"github.com/govtorders/goms/internal/home"
	"github.com/govtorders/goms/internal/jobs"
	"github.com/govtorders/goms/internal/pdftext"
	"github.com/govtorders/goms/internal/pipeline"
	"github.com/govtorders/goms/internal/providers"
	"github.com/govtorders/goms/internal/server/endpoints"
	"github.com/govtorders/goms/internal/svcctx"
)

// Server is the goms HTTP server. It owns the job manager and rebuilds
// the processing pipeline when the config file changes on disk.
type Server struct {
	httpServer *http.Server
	jobManager *jobs.Manager
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services is an immutable snapshot for context enrichment; config
	// reloads swap the pointer, never mutate the struct in place.
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	runner *swappableRunner

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the goms home directory
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
		return nil, errors.New("home directory is required")
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("preparing home directory: %w", err)
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
		runner:    &swappableRunner{},
	}
	s.runner.swap(buildRunner(cfg.ConfigManager.Get(), cfg.Home, cfg.Logger))

	// Rebuild the pipeline when the config file changes so a new API key
	// or strategy takes effect without a restart.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.runner.swap(buildRunner(c, cfg.Home, cfg.Logger))
		cfg.Logger.Info("pipeline rebuilt from config")
	})

	s.jobManager = jobs.NewManager(s.runner, cfg.Logger)

	s.refreshServices(cfg.ConfigManager.Get())
	cfg.ConfigManager.OnChange(s.refreshServices)

	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)
	cfg.Logger.Info("registered API endpoints", "count", len(s.endpointRegistry.Endpoints()))

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server. In-flight jobs
// keep running until their goroutines finish or the process exits.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// JobManager returns the job manager.
func (s *Server) JobManager() *jobs.Manager {
	return s.jobManager
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// refreshServices builds a fresh service snapshot from the config and
// swaps it in. In-flight handlers keep the snapshot they started with,
// so a reload never races their reads.
func (s *Server) refreshServices(c *config.Config) {
	services := &svcctx.Services{
		JobManager: s.jobManager,
		Home:       s.home,
		Logger:     s.logger,
		Oracle:     buildOracle(c, s.logger),
		PDFText: pdftext.New(pdftext.Config{
			OCRBinary: c.OCR.Binary,
			OCRJobs:   c.OCR.Jobs,
			Logger:    s.logger,
		}),
	}

	s.mu.Lock()
	s.services = services
	s.mu.Unlock()
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()
		ctx := svcctx.WithServices(r.Context(), services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// buildOracle creates the configured oracle, or nil when no API key is
// set.
func buildOracle(c *config.Config, logger *slog.Logger) providers.StructuredOracle {
	oracle, err := providers.NewGeminiOracle(providers.GeminiConfig{
		BaseURL:    c.Oracle.BaseURL,
		Model:      c.Oracle.Model,
		APIKey:     c.ResolvedAPIKey(),
		RateLimit:  c.Oracle.RateLimit,
		MaxRetries: c.Oracle.MaxRetries,
	})
	if err != nil {
		if errors.Is(err, providers.ErrNotConfigured) {
			logger.Warn("oracle not configured, extraction will fail until an API key is set")
			return nil
		}
		logger.Error("oracle setup failed", "error", err)
		return nil
	}
	return oracle
}

func buildRunner(c *config.Config, dir *home.Dir, logger *slog.Logger) *pipeline.Runner {
	return pipeline.New(*c, dir, buildOracle(c, logger), logger)
}

// swappableRunner lets the job manager hold one stable Processor while
// the underlying pipeline is rebuilt on config reload. Jobs already
// running keep their old runner.
type swappableRunner struct {
	mu sync.RWMutex
	r  *pipeline.Runner
}

func (w *swappableRunner) swap(r *pipeline.Runner) {
	w.mu.Lock()
	w.r = r
	w.mu.Unlock()
}

func (w *swappableRunner) Run(ctx context.Context, jobID, bundlePath string) (*pipeline.Result, error) {
	w.mu.RLock()
	r := w.r
	w.mu.RUnlock()
	return r.Run(ctx, jobID, bundlePath)
}
