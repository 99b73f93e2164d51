// Package recipe provides the application layer for recipe generation.
// Prompts are enriched with pairing suggestions from the ingredient graph.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/security"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"go.uber.org/zap"
)

const defaultCuisine = "any"

// Metrics receives generation measurements
type Metrics interface {
	AIRequest(provider, status string, duration time.Duration)
}

// Service implements inbound.RecipeService
type Service struct {
	graphs      *ingredient.Holder
	generator   outbound.RecipeGenerator
	validator   *security.Validator
	metrics     Metrics
	promptLimit int
	logger      *zap.Logger
}

var _ inbound.RecipeService = (*Service)(nil)

// NewService creates a new recipe service. promptLimit bounds the pairing
// hints folded into each prompt.
func NewService(
	graphs *ingredient.Holder,
	generator outbound.RecipeGenerator,
	validator *security.Validator,
	metrics Metrics,
	promptLimit int,
	logger *zap.Logger,
) *Service {
	if promptLimit <= 0 {
		promptLimit = 3
	}
	return &Service{
		graphs:      graphs,
		generator:   generator,
		validator:   validator,
		metrics:     metrics,
		promptLimit: promptLimit,
		logger:      logger.Named("recipe-service"),
	}
}

// Generate builds a prompt for the requested ingredients and sends it to
// the recipe generator
func (s *Service) Generate(ctx context.Context, req inbound.GenerateRecipeRequest) (*inbound.GenerateRecipeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	names := make([]string, len(req.Ingredients))
	for i, name := range req.Ingredients {
		names[i] = ingredient.Normalize(name)
	}

	pairing := s.graphs.Graph().Pairing(names, s.promptLimit)
	prompt := BuildPrompt(names, req.Cuisine, req.Dietary, pairing)

	start := time.Now()
	recipe, err := s.generator.Generate(ctx, prompt)
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.AIRequest(s.generator.Name(), status, time.Since(start))
	}
	if err != nil {
		s.logger.Error("Recipe generation failed",
			zap.String("provider", s.generator.Name()),
			zap.Strings("ingredients", names),
			zap.Error(err))
		return nil, errors.NewExternalServiceError(s.generator.Name(), err)
	}

	s.logger.Info("Recipe generated",
		zap.String("provider", s.generator.Name()),
		zap.Int("ingredients", len(names)),
		zap.Duration("duration", time.Since(start)))

	return &inbound.GenerateRecipeResponse{
		Success:  true,
		Recipe:   recipe,
		Prompt:   prompt,
		Pairing:  pairing,
		Provider: s.generator.Name(),
	}, nil
}

// BuildPrompt folds the pairing hints into the text sent to the model
func BuildPrompt(names []string, cuisine string, dietary []string, pairing ingredient.Pairing) string {
	if strings.TrimSpace(cuisine) == "" {
		cuisine = defaultCuisine
	}

	var prompt strings.Builder
	prompt.WriteString("You are a professional chef and recipe creator.\n\n")
	prompt.WriteString(fmt.Sprintf("Create a %s cuisine recipe using: %s.\n", cuisine, strings.Join(names, ", ")))

	if len(dietary) > 0 {
		prompt.WriteString(fmt.Sprintf("Strictly respect these dietary restrictions: %s.\n", strings.Join(dietary, ", ")))
	}

	if len(pairing.Complementary) > 0 {
		prompt.WriteString(fmt.Sprintf("Consider adding ingredients that pair well: %s.\n", joinNames(pairing.Complementary)))
	}
	if len(pairing.Substitutes) > 0 {
		prompt.WriteString(fmt.Sprintf("Possible substitutes if something is missing: %s.\n", joinNames(pairing.Substitutes)))
	}

	prompt.WriteString("\nReturn a recipe name, a short description, an ingredient list with amounts and numbered steps. ")
	prompt.WriteString("Use simple, clear instructions and common ingredients.")
	return prompt.String()
}

func joinNames(suggestions []ingredient.Suggestion) string {
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Ingredient
	}
	return strings.Join(names, ", ")
}
