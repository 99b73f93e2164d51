package testutils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
)

// TestConfig returns a valid configuration for in-process tests: memory
// cache, sqlite under a temp dir, mock AI, no tracing, rate limiting off.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{
			Name:        "flavorgraph",
			Version:     "test",
			Environment: "test",
			LogLevel:    "debug",
			LogFormat:   "json",
		},
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              8080,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			IdleTimeout:       30 * time.Second,
			RequestTimeout:    5 * time.Second,
			MaxHeaderBytes:    1 << 20,
			ShutdownTimeout:   5 * time.Second,
			EnableCORS:        true,
			AllowedOrigins:    []string{"*"},
			EnableCompression: true,
		},
		Graph: config.GraphConfig{
			DefaultLimit: 5,
			PromptLimit:  3,
			MaxLimit:     50,
		},
		Cache: config.CacheConfig{
			Driver:  "memory",
			TTL:     time.Minute,
			Enabled: true,
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "flavorgraph.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			LogLevel:     "silent",
		},
		AI: config.AIConfig{
			Provider: "mock",
			Timeout:  5 * time.Second,
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			MetricsPath:     "/metrics",
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
		},
		RateLimit: config.RateLimitConfig{
			Enable:         false,
			RequestsPerMin: 600,
			BurstSize:      100,
		},
	}
}
