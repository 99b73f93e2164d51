//go:build integration

package gorm_test

import (
	"context"
	"testing"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	gormstore "github.com/alchemorsel/flavorgraph/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/flavorgraph/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepositoryPostgres(t *testing.T) {
	db := testutils.SetupPostgresDatabase(t)
	repo := gormstore.NewIngredientRepository(db.GormDB)
	ctx := context.Background()

	t.Run("SaveAndList_ShouldKeepOrder", func(t *testing.T) {
		db.TruncateAll()

		for _, name := range []string{"miso", "yuzu", "sumac"} {
			require.NoError(t, repo.Save(ctx, ingredient.Extension{
				Name:    name,
				Similar: []ingredient.WeightedIngredient{{Ingredient: "lemon", Weight: 0.5}},
			}))
		}

		extensions, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, extensions, 3)
		assert.Equal(t, "miso", extensions[0].Name)
		assert.Equal(t, "sumac", extensions[2].Name)
	})

	t.Run("Ping_ShouldSucceed", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
