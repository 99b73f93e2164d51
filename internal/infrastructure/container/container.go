// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/application/pairing"
	"github.com/alchemorsel/flavorgraph/internal/application/recipe"
	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/ai"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/ai/openai"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/cache"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/http/server"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/monitoring"
	gormstore "github.com/alchemorsel/flavorgraph/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/security"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/seedwatch"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"github.com/alchemorsel/flavorgraph/pkg/healthcheck"
	"github.com/alchemorsel/flavorgraph/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath is the configuration file to load; empty searches the default
// locations
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	GraphModule,
	CacheModule,
	DatabaseModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// New returns the application options for the given config file
func New(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(configPath)),
		Module,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Service:     cfg.App.Name,
			Version:     cfg.App.Version,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// GraphModule provides the live ingredient graph
var GraphModule = fx.Provide(
	NewGraphHolder,
)

// NewGraphHolder builds the graph from the configured seed file, or the
// embedded seed when none is set
func NewGraphHolder(cfg *config.Config, log *zap.Logger) (*ingredient.Holder, error) {
	seed, err := LoadSeed(cfg.Graph.SeedPath)
	if err != nil {
		return nil, err
	}

	g, err := ingredient.Build(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to build ingredient graph: %w", err)
	}

	stats := g.Stats()
	log.Info("Ingredient graph built",
		zap.String("seed", seedName(cfg.Graph.SeedPath)),
		zap.Int("nodes", stats.NodeCount),
		zap.Int("edges", stats.EdgeCount),
	)
	return ingredient.NewHolder(g), nil
}

// LoadSeed reads the seed at path, or the embedded seed for ""
func LoadSeed(path string) (ingredient.Seed, error) {
	if path == "" {
		return ingredient.DefaultSeed()
	}
	seed, err := ingredient.LoadSeedFile(path)
	if err != nil {
		return ingredient.Seed{}, fmt.Errorf("failed to load seed %s: %w", path, err)
	}
	return seed, nil
}

func seedName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// CacheModule provides the query result cache. A disabled cache is nil.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if !cfg.Cache.Enabled {
			log.Info("Query cache disabled")
			return nil, nil
		}

		switch cfg.Cache.Driver {
		case "redis":
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			client, err := cache.NewRedisClient(ctx, &cfg.Redis, log)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
			return client, nil
		default:
			repo := memory.NewCacheRepository(time.Minute)
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return repo.Close() }})
			log.Info("Using in-memory query cache")
			return repo, nil
		}
	},
)

// DatabaseModule provides the extension store
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormstore.SetupDatabase(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return gormstore.Close(db) }})
		return db, nil
	},
	fx.Annotate(
		gormstore.NewIngredientRepository,
		fx.As(new(outbound.IngredientRepository)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	security.NewValidator,

	func(cfg *config.Config, log *zap.Logger) (outbound.RecipeGenerator, error) {
		switch cfg.AI.Provider {
		case "openai":
			return openai.NewClient(cfg.AI, log)
		default:
			log.Info("Using mock recipe generator")
			return ai.MockGenerator{}, nil
		}
	},

	func(
		graphs *ingredient.Holder,
		repo outbound.IngredientRepository,
		cacheRepo outbound.CacheRepository,
		validator *security.Validator,
		metrics *monitoring.MetricsCollector,
		cfg *config.Config,
		log *zap.Logger,
	) *pairing.Service {
		return pairing.NewService(graphs, repo, cacheRepo, validator, metrics, pairing.Config{
			DefaultLimit: cfg.Graph.DefaultLimit,
			MaxLimit:     cfg.Graph.MaxLimit,
			CacheTTL:     cfg.Cache.TTL,
		}, log)
	},
	func(s *pairing.Service) inbound.PairingService { return s },

	func(
		graphs *ingredient.Holder,
		generator outbound.RecipeGenerator,
		validator *security.Validator,
		metrics *monitoring.MetricsCollector,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipe.NewService(graphs, generator, validator, metrics, cfg.Graph.PromptLimit, log)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewSimilarityHandlers,
	handlers.NewRecipeHandlers,
	NewHealthCheck,
	server.NewServer,
)

// NewHealthCheck registers the graph, cache and database checks. The cache
// is not critical: queries still work without it.
func NewHealthCheck(
	cfg *config.Config,
	graphs *ingredient.Holder,
	cacheRepo outbound.CacheRepository,
	repo outbound.IngredientRepository,
	log *zap.Logger,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log.Named("health"))

	hc.Register("graph", healthcheck.NewCustomChecker("graph", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		stats := graphs.Graph().Stats()
		if stats.NodeCount == 0 {
			return healthcheck.StatusUnhealthy, "graph is empty", nil
		}
		return healthcheck.StatusHealthy, "", map[string]int{
			"nodes": stats.NodeCount,
			"edges": stats.EdgeCount,
		}
	}))
	hc.Register("database", DatabaseChecker(repo))
	if cacheRepo != nil {
		hc.Register("cache", healthcheck.NewPingChecker(cacheRepo, false))
	}
	return hc
}

// DatabaseChecker pings the extension store and reports how many
// ingredients it holds. The database is critical.
func DatabaseChecker(repo outbound.IngredientRepository) healthcheck.Checker {
	return healthcheck.NewCustomChecker("database", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		if err := repo.Ping(ctx); err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		count, err := repo.Count(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		return healthcheck.StatusHealthy, "", map[string]int64{"stored_ingredients": count}
	})
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks restores stored ingredients, starts the seed watcher
// when enabled and runs the HTTP server
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	service *pairing.Service,
	srv *server.Server,
	_ *monitoring.TracingProvider,
) error {
	var watcher *seedwatch.Watcher
	if cfg.Graph.WatchSeed && cfg.Graph.SeedPath != "" {
		w, err := seedwatch.NewWatcher(cfg.Graph.SeedPath, service, seedwatch.DefaultDebounce, log)
		if err != nil {
			return err
		}
		watcher = w
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting flavorgraph",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if err := service.Restore(ctx); err != nil {
				return fmt.Errorf("failed to restore stored ingredients: %w", err)
			}

			if watcher != nil {
				if err := watcher.Start(context.Background()); err != nil {
					return err
				}
			}

			go func() {
				if err := srv.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down flavorgraph")

			if watcher != nil {
				if err := watcher.Stop(); err != nil {
					log.Warn("Failed to stop seed watcher", zap.Error(err))
				}
			}

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
	return nil
}
