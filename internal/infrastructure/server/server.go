package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/jsexec/internal/api/http"
	"github.com/GriffinCanCode/jsexec/internal/api/middleware"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/config"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/jsexec/internal/service"
)

// ShutdownTimeout bounds graceful shutdown. In-flight executions finish
// within their own timeout, which is at most 30s.
const ShutdownTimeout = 35 * time.Second

// Deps are the components the HTTP server exposes
type Deps struct {
	Registry    *service.Registry
	Metrics     *monitoring.Metrics
	Gatherer    prometheus.Gatherer
	EngineStats apihttp.StatsFunc
	Logger      *logging.Logger
	Version     string
}

// Server is the HTTP transport
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *logging.Logger
	config *config.Config
}

// NewServer builds the router and routes
func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(deps.Metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(deps.Registry, deps.Metrics, deps.EngineStats, logger, deps.Version)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/tools", handlers.ListTools)
	router.POST("/tools/call", handlers.CallTool)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return &Server{
		router: router,
		logger: logger,
		config: cfg,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		return err
	}
	return <-errCh
}
