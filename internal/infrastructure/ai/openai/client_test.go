package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.AIConfig{
		BaseURL:         server.URL + "/v1/",
		APIKey:          "test-key",
		Model:           "llama-3.1-8b-instant",
		MaxTokens:       256,
		Timeout:         5 * time.Second,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "llama-3.1-8b-instant",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
	}
}

func TestClientGenerate(t *testing.T) {
	t.Run("ShouldSendPromptAndReturnContent", func(t *testing.T) {
		var received map[string]interface{}
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(completion("Tomato basil bruschetta"))
		})

		recipe, err := client.Generate(context.Background(), "Create a recipe using tomato")

		require.NoError(t, err)
		assert.Equal(t, "Tomato basil bruschetta", recipe)
		assert.Equal(t, "llama-3.1-8b-instant", received["model"])
		messages := received["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "Create a recipe using tomato", messages[1].(map[string]interface{})["content"])
	})

	t.Run("EmptyChoice_ShouldFail", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(completion("  "))
		})

		_, err := client.Generate(context.Background(), "prompt")

		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("RepeatedFailures_ShouldOpenBreaker", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
		})

		for i := 0; i < 2; i++ {
			_, err := client.Generate(context.Background(), "prompt")
			require.Error(t, err)
		}
		_, err := client.Generate(context.Background(), "prompt")

		assert.True(t, resilience.IsOpen(err))
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(config.AIConfig{}, zap.NewNop())

	assert.Error(t, err)
}
