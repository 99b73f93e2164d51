package gorm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IngredientRepositoryTestSuite runs against a throwaway sqlite file
type IngredientRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo *IngredientRepository
	ctx  context.Context
}

func (suite *IngredientRepositoryTestSuite) SetupTest() {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(suite.T().TempDir(), "data", "test.db"),
		LogLevel: "silent",
	}}

	db, err := SetupDatabase(cfg, zap.NewNop())
	require.NoError(suite.T(), err)

	suite.db = db
	suite.repo = NewIngredientRepository(db)
	suite.ctx = context.Background()
}

func (suite *IngredientRepositoryTestSuite) TearDownTest() {
	Close(suite.db)
}

func (suite *IngredientRepositoryTestSuite) TestSaveAndList() {
	suite.Run("Extensions_ShouldRoundTripInOrder", func() {
		// Arrange
		first := ingredient.Extension{
			Name: "  Miso ",
			Similar: []ingredient.WeightedIngredient{
				{Ingredient: "soy sauce", Weight: 0.8},
				{Ingredient: "Ginger", Weight: 0.5},
			},
			Policy: ingredient.PolicyKeepMax,
		}
		second := ingredient.Extension{
			Name:    "yuzu",
			Similar: []ingredient.WeightedIngredient{{Ingredient: "lemon", Weight: 0.9}},
		}

		// Act
		require.NoError(suite.T(), suite.repo.Save(suite.ctx, first))
		require.NoError(suite.T(), suite.repo.Save(suite.ctx, second))
		extensions, err := suite.repo.List(suite.ctx)

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), extensions, 2)
		assert.Equal(suite.T(), "miso", extensions[0].Name)
		assert.Equal(suite.T(), ingredient.PolicyKeepMax, extensions[0].Policy)
		assert.Equal(suite.T(), []ingredient.WeightedIngredient{
			{Ingredient: "soy sauce", Weight: 0.8},
			{Ingredient: "ginger", Weight: 0.5},
		}, extensions[0].Similar)
		assert.Equal(suite.T(), "yuzu", extensions[1].Name)
		assert.Equal(suite.T(), ingredient.PolicyOverwrite, extensions[1].Policy)
	})
}

func (suite *IngredientRepositoryTestSuite) TestReplay() {
	suite.Run("StoredExtensions_ShouldRebuildGraph", func() {
		// Arrange
		require.NoError(suite.T(), suite.repo.Save(suite.ctx, ingredient.Extension{
			Name:    "yuzu",
			Similar: []ingredient.WeightedIngredient{{Ingredient: "lemon", Weight: 0.9}},
		}))
		g := ingredient.MustDefaultGraph()

		// Act
		extensions, err := suite.repo.List(suite.ctx)
		require.NoError(suite.T(), err)
		err = ingredient.Replay(g, extensions)

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), g.Contains("yuzu"))
		assert.Equal(suite.T(), 0.9, g.EdgeWeight("lemon", "yuzu"))
	})
}

func (suite *IngredientRepositoryTestSuite) TestCountAndPing() {
	count, err := suite.repo.Count(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)

	assert.NoError(suite.T(), suite.repo.Ping(suite.ctx))
}

func (suite *IngredientRepositoryTestSuite) TestEmptyList() {
	extensions, err := suite.repo.List(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), extensions)
}

func TestIngredientRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(IngredientRepositoryTestSuite))
}
