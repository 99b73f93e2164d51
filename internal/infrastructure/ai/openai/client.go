// Package openai provides recipe generation through any OpenAI compatible
// chat completion API (OpenAI, Groq, a local Ollama)
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/resilience"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// systemPrompt frames every completion
const systemPrompt = "You are a professional chef. Write clear, practical recipes with an ingredient list and numbered steps."

// ErrEmptyCompletion is returned when the API answers without content
var ErrEmptyCompletion = errors.New("completion returned no content")

// Client implements outbound.RecipeGenerator
type Client struct {
	client      *goopenai.Client
	model       string
	maxTokens   int
	temperature float32
	breaker     *gobreaker.CircuitBreaker
	logger      *zap.Logger
}

var _ outbound.RecipeGenerator = (*Client)(nil)

// NewClient creates a new chat completion client
func NewClient(cfg config.AIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai.api_key is required")
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	breakerCfg := resilience.DefaultBreakerConfig("ai")
	if cfg.BreakerFailures > 0 {
		breakerCfg.ConsecutiveFailures = cfg.BreakerFailures
	}
	if cfg.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.BreakerTimeout
	}

	logger.Info("Recipe generator initialized",
		zap.String("base_url", clientCfg.BaseURL),
		zap.String("model", cfg.Model))

	return &Client{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		breaker:     resilience.NewBreaker(breakerCfg, logger),
		logger:      logger.Named("openai"),
	}, nil
}

// Name returns the provider name
func (c *Client) Name() string {
	return "openai"
}

// Generate sends prompt as a chat completion and returns the first choice
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return nil, ErrEmptyCompletion
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		c.logger.Error("Chat completion failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return result.(string), nil
}
