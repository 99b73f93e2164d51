// Package resilience wraps calls to remote dependencies in circuit breakers
package resilience

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for a circuit breaker
type BreakerConfig struct {
	Name string
	// MaxRequests allowed through while half-open
	MaxRequests uint32
	// Interval after which closed-state counts are cleared
	Interval time.Duration
	// Timeout before an open breaker moves to half-open
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker
	ConsecutiveFailures uint32
	// Ignore lists errors that do not count as failures, e.g. cache misses
	Ignore []error
}

// DefaultBreakerConfig returns a default configuration for name
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         3,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// NewBreaker creates a circuit breaker that logs state changes
func NewBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	logger = logger.Named("breaker")

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			for _, ignored := range cfg.Ignore {
				if errors.Is(err, ignored) {
					return true
				}
			}
			return false
		},
	})
}

// IsOpen reports whether err was returned because the breaker rejected the call
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
