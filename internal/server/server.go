package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/globalsolution/ecoprev/internal/config"
	"github.com/globalsolution/ecoprev/internal/logger"
	"github.com/globalsolution/ecoprev/internal/metrics"
	"github.com/globalsolution/ecoprev/internal/monitor"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/server/middleware"
	"github.com/globalsolution/ecoprev/internal/storage"
	"github.com/globalsolution/ecoprev/internal/tracking"
)

// Deps are the collaborators built at startup. Only Service is required.
type Deps struct {
	Service    *prediction.Service
	Models     []storage.ModelInfo
	Aggregator *monitor.Aggregator
	Metrics    *metrics.Metrics
	Tracker    *tracking.Tracker

	// LogLevel is updated on reload when set.
	LogLevel *slog.LevelVar
}

type Server struct {
	httpServer  *http.Server
	service     *prediction.Service
	models      []storage.ModelInfo
	aggregator  *monitor.Aggregator
	metrics     *metrics.Metrics
	tracker     *tracking.Tracker
	logLevel    *slog.LevelVar
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
	version     string

	mu     sync.RWMutex
	config *config.Config
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger, version string) *Server {
	s := &Server{
		service:     deps.Service,
		models:      deps.Models,
		aggregator:  deps.Aggregator,
		metrics:     deps.Metrics,
		tracker:     deps.Tracker,
		logLevel:    deps.LogLevel,
		rateLimiter: middleware.NewRateLimiter(rateLimitConfig(cfg)),
		config:      cfg,
		logger:      logger,
		version:     version,
	}

	for _, m := range s.models {
		s.metrics.SetModelInfo(m.Name, m.Type.String())
	}

	mux := s.setupRoutes()

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger, s.tracker),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Metrics(s.metrics),
		middleware.SecurityHeaders(),
		s.rateLimiter.Middleware(),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return s
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Enabled:           cfg.Server.RateLimit.Enabled,
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
		PerIP:             cfg.Server.RateLimit.PerIP,
	}
}

// ReloadConfig applies settings that can change at runtime: log level and
// rate limit. Address, models and metrics require a restart.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.logger.Info("reloading configuration")

	s.rateLimiter.Update(rateLimitConfig(cfg))
	if s.logLevel != nil {
		s.logLevel.Set(logger.ParseLevel(cfg.Logging.Level))
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	s.logger.Info("configuration reloaded",
		"log_level", cfg.Logging.Level,
		"rate_limit_enabled", cfg.Server.RateLimit.Enabled,
	)
}

// Config returns the active configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
	)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
