package inbound

import (
	"context"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
)

// RecipeService turns a set of ingredients into a generated recipe,
// using pairing suggestions to enrich the prompt
type RecipeService interface {
	Generate(ctx context.Context, req GenerateRecipeRequest) (*GenerateRecipeResponse, error)
}

// GenerateRecipeRequest contains data for recipe generation
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required,ingredient"`
	Cuisine     string   `json:"cuisine" validate:"omitempty,max=50"`
	Dietary     []string `json:"dietary" validate:"dive,max=50"`
}

// GenerateRecipeResponse contains the generated recipe and how it was asked for
type GenerateRecipeResponse struct {
	Success  bool               `json:"success"`
	Recipe   string             `json:"recipe"`
	Prompt   string             `json:"prompt"`
	Pairing  ingredient.Pairing `json:"pairing"`
	Provider string             `json:"provider"`
}
