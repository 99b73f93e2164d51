package resilience

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")
var errMiss = errors.New("miss")

func TestNewBreaker(t *testing.T) {
	t.Run("ConsecutiveFailures_ShouldOpen", func(t *testing.T) {
		cfg := DefaultBreakerConfig("test")
		cfg.ConsecutiveFailures = 2
		cb := NewBreaker(cfg, zap.NewNop())

		for i := 0; i < 2; i++ {
			_, err := cb.Execute(func() (interface{}, error) { return nil, errBoom })
			assert.ErrorIs(t, err, errBoom)
		}

		_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
		assert.True(t, IsOpen(err))
		assert.Equal(t, gobreaker.StateOpen, cb.State())
	})

	t.Run("IgnoredErrors_ShouldNotTrip", func(t *testing.T) {
		cfg := DefaultBreakerConfig("ignore")
		cfg.ConsecutiveFailures = 1
		cfg.Ignore = []error{errMiss}
		cb := NewBreaker(cfg, zap.NewNop())

		for i := 0; i < 3; i++ {
			_, err := cb.Execute(func() (interface{}, error) { return nil, errMiss })
			assert.ErrorIs(t, err, errMiss)
		}

		assert.Equal(t, gobreaker.StateClosed, cb.State())
	})

	t.Run("IsOpen_ShouldIgnoreOtherErrors", func(t *testing.T) {
		assert.False(t, IsOpen(errBoom))
		assert.False(t, IsOpen(nil))
		assert.True(t, IsOpen(gobreaker.ErrTooManyRequests))
	})
}
