// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
)

// Query actions
const (
	ActionComplementary = "complementary"
	ActionSubstitutes   = "substitutes"
	ActionPairing       = "pairing"
)

// MsgIngredientsRequired is the client message for a missing, empty or
// non-array ingredients field
const MsgIngredientsRequired = "Ingredients array is required and must not be empty"

// Similarity strategies for pair scoring
const (
	StrategyBFS      = "bfs"
	StrategyWeighted = "weighted"
)

// PairingService answers ingredient similarity queries
// HTTP handlers and the CLI drive the graph through this port
type PairingService interface {
	Query(ctx context.Context, req SimilarityRequest) (*SimilarityResponse, error)
	Stats(ctx context.Context) (*StatsResponse, error)
	Pair(ctx context.Context, req PairRequest) (*PairResponse, error)
	AddIngredient(ctx context.Context, req AddIngredientRequest) (*AddIngredientResponse, error)
}

// SimilarityRequest asks for suggestions around a set of ingredients.
// Action defaults to pairing and Limit to the configured default.
type SimilarityRequest struct {
	Ingredients []string `json:"ingredients"`
	Action      string   `json:"action"`
	Limit       *int     `json:"limit" validate:"omitempty,min=0,max=50"`
	Sort        string   `json:"sort" validate:"omitempty,oneof=score"`
}

// SuggestionList is the body of a complementary or substitutes answer
type SuggestionList struct {
	Suggestions []ingredient.Suggestion `json:"suggestions"`
}

// PairingLists is the body of a pairing answer
type PairingLists struct {
	Complementary []ingredient.Suggestion `json:"complementary"`
	Substitutes   []ingredient.Suggestion `json:"substitutes"`
}

// SimilarityResponse carries either a SuggestionList or PairingLists,
// depending on the action.
type SimilarityResponse struct {
	Success         bool     `json:"success"`
	Action          string   `json:"action"`
	BaseIngredients []string `json:"baseIngredients"`
	*SuggestionList
	*PairingLists
	Reasoning          string   `json:"reasoning"`
	UnknownIngredients []string `json:"unknownIngredients,omitempty"`
}

// StatsResponse describes the live graph
type StatsResponse struct {
	Success bool             `json:"success"`
	Stats   ingredient.Stats `json:"stats"`
	Message string           `json:"message"`
}

// PairRequest scores two ingredients against each other
type PairRequest struct {
	A        string `json:"a" validate:"required"`
	B        string `json:"b" validate:"required"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=bfs weighted"`
}

// PairResponse is the score of a pair and the path it was computed on
type PairResponse struct {
	Success    bool     `json:"success"`
	A          string   `json:"a"`
	B          string   `json:"b"`
	Strategy   string   `json:"strategy"`
	Similarity float64  `json:"similarity"`
	Path       []string `json:"path"`
}

// AddIngredientRequest extends the graph with a new ingredient
type AddIngredientRequest struct {
	Name    string                          `json:"name" validate:"required,ingredient"`
	Similar []ingredient.WeightedIngredient `json:"similar" validate:"dive"`
	Policy  string                          `json:"policy" validate:"omitempty,oneof=overwrite max reject"`
}

// AddIngredientResponse lists the neighbors of the added ingredient
type AddIngredientResponse struct {
	Success    bool                            `json:"success"`
	Ingredient string                          `json:"ingredient"`
	Neighbors  []ingredient.WeightedIngredient `json:"neighbors"`
}
