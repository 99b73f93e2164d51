package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator(t *testing.T) {
	t.Run("ShouldEchoPrompt", func(t *testing.T) {
		recipe, err := MockGenerator{}.Generate(context.Background(), "line one\nline two")

		require.NoError(t, err)
		assert.Contains(t, recipe, "> line one\n> line two\n")
		assert.Equal(t, "mock", MockGenerator{}.Name())
	})

	t.Run("CancelledContext_ShouldFail", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := MockGenerator{}.Generate(ctx, "prompt")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
