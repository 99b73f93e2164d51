package handlers

import (
	"net/http"

	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"go.uber.org/zap"
)

// RecipeHandlers serves recipe generation
type RecipeHandlers struct {
	recipes inbound.RecipeService
	logger  *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(recipes inbound.RecipeService, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		recipes: recipes,
		logger:  logger.Named("recipe-handlers"),
	}
}

// Generate handles POST /api/v1/recipes/generate
func (h *RecipeHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req inbound.GenerateRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("Invalid request body").WithCause(err), "")
		return
	}

	resp, err := h.recipes.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to generate recipe")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
