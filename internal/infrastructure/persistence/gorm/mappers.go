package gorm

import (
	"fmt"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
)

// ExtensionToModel converts a domain extension to a GORM model
func ExtensionToModel(ext ingredient.Extension) *IngredientModel {
	model := &IngredientModel{
		Name:   ingredient.Normalize(ext.Name),
		Policy: ext.Policy.String(),
		Edges:  make([]EdgeModel, len(ext.Similar)),
	}

	for i, s := range ext.Similar {
		model.Edges[i] = EdgeModel{
			Target:   ingredient.Normalize(s.Ingredient),
			Weight:   s.Weight,
			Position: i,
		}
	}

	return model
}

// ModelToExtension converts a GORM model back to a domain extension. Edges
// must already be ordered by position.
func ModelToExtension(model *IngredientModel) (ingredient.Extension, error) {
	policy, err := ingredient.ParsePolicy(model.Policy)
	if err != nil {
		return ingredient.Extension{}, fmt.Errorf("stored ingredient %q: %w", model.Name, err)
	}

	similar := make([]ingredient.WeightedIngredient, len(model.Edges))
	for i, e := range model.Edges {
		similar[i] = ingredient.WeightedIngredient{Ingredient: e.Target, Weight: e.Weight}
	}

	return ingredient.Extension{
		Name:    model.Name,
		Similar: similar,
		Policy:  policy,
	}, nil
}
