// Package server provides the HTTP server for the flavorgraph API
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/monitoring"
	apperrors "github.com/alchemorsel/flavorgraph/pkg/errors"
	"github.com/alchemorsel/flavorgraph/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	router      *chi.Mux
	server      *http.Server
	similarity  *handlers.SimilarityHandlers
	recipes     *handlers.RecipeHandlers
	health      *healthcheck.HealthCheck
	metrics     *monitoring.MetricsCollector
	rateLimiter *middleware.RateLimiter
	stop        chan struct{}
}

// NewServer creates a new HTTP server instance. metrics may be nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	similarity *handlers.SimilarityHandlers,
	recipes *handlers.RecipeHandlers,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger.Named("http-server"),
		similarity: similarity,
		recipes:    recipes,
		health:     health,
		metrics:    metrics,
		stop:       make(chan struct{}),
	}

	if cfg.RateLimit.Enable {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize)
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           otelhttp.NewHandler(s.router, cfg.App.Name),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	mon := s.config.Monitoring

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger, mon.HealthCheckPath, mon.ReadinessPath, mon.MetricsPath))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Security(s.config.IsProduction()))
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware(routePattern))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperrors.NewNotFoundError("Route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperrors.NewAppError(apperrors.CodeMethodNotAllowed, "Method not allowed", r.Method).
			WithMetadata("path", r.URL.Path))
	})

	r.Get(mon.HealthCheckPath, s.health.Handler())
	r.Get(mon.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/live", s.health.LivenessHandler())
	if s.metrics != nil && mon.EnableMetrics {
		r.Handle(mon.MetricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.rateLimiter != nil {
			r.Use(s.rateLimiter.Handler)
		}
		if s.config.Server.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		}
		if s.config.Server.EnableCompression {
			r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))
		}

		r.Route("/ingredient-similarity", func(r chi.Router) {
			r.Post("/", s.similarity.Query)
			r.Get("/stats", s.similarity.Stats)
			r.Get("/pair", s.similarity.Pair)
		})
		r.Post("/ingredients", s.similarity.AddIngredient)
		r.Post("/recipes/generate", s.recipes.Generate)
	})

	return r
}

// routePattern labels metrics with the matched route instead of the raw
// path so label cardinality stays bounded
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it is shut down
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if s.config.Server.EnableHTTP2 {
		if err := http2.ConfigureServer(s.server, &http2.Server{IdleTimeout: s.config.Server.IdleTimeout}); err != nil {
			s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
		}
	}

	if s.rateLimiter != nil {
		go s.rateLimiter.Run(s.config.RateLimit.CleanupInterval, s.stop)
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return s.server.Shutdown(ctx)
}
