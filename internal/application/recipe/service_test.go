package recipe

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/security"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"github.com/alchemorsel/flavorgraph/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// RecipeServiceTestSuite covers prompt building and generation
type RecipeServiceTestSuite struct {
	suite.Suite
	service   *Service
	generator *testutils.MockRecipeGenerator
	ctx       context.Context
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.generator = new(testutils.MockRecipeGenerator)
	suite.service = NewService(
		ingredient.NewHolder(ingredient.MustDefaultGraph()),
		suite.generator,
		security.NewValidator(),
		nil,
		3,
		zap.NewNop(),
	)
}

func (suite *RecipeServiceTestSuite) TestGenerate() {
	suite.Run("Prompt_ShouldCarryPairingHints", func() {
		// Arrange
		var prompt string
		suite.generator.On("Generate", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { prompt = args.String(1) }).
			Return("Garlic chicken", nil).Once()

		// Act
		resp, err := suite.service.Generate(suite.ctx, inbound.GenerateRecipeRequest{
			Ingredients: []string{"Chicken", " garlic"},
			Cuisine:     "Italian",
			Dietary:     []string{"gluten-free"},
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Garlic chicken", resp.Recipe)
		assert.Equal(suite.T(), "mock", resp.Provider)
		assert.Equal(suite.T(), prompt, resp.Prompt)
		assert.Equal(suite.T(), []string{"turkey", "garlic", "ginger"}, testutils.Names(resp.Pairing.Complementary))
		assert.Contains(suite.T(), prompt, "Create a Italian cuisine recipe using: chicken, garlic.")
		assert.Contains(suite.T(), prompt, "Strictly respect these dietary restrictions: gluten-free.")
		assert.Contains(suite.T(), prompt, "Consider adding ingredients that pair well: turkey, garlic, ginger.")
		assert.Contains(suite.T(), prompt, "Possible substitutes if something is missing: turkey, garlic powder, onion.")
		suite.generator.AssertExpectations(suite.T())
	})

	suite.Run("GeneratorFailure_ShouldBeExternalServiceError", func() {
		suite.generator.On("Generate", mock.Anything, mock.Anything).
			Return("", stderrors.New("timeout")).Once()

		_, err := suite.service.Generate(suite.ctx, inbound.GenerateRecipeRequest{Ingredients: []string{"rice"}})

		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, errors.CodeExternalServiceError))
	})

	suite.Run("NoIngredients_ShouldFailValidation", func() {
		_, err := suite.service.Generate(suite.ctx, inbound.GenerateRecipeRequest{})

		assert.True(suite.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("NoHints_ShouldOmitHintLines", func(t *testing.T) {
		prompt := BuildPrompt([]string{"salt"}, "", nil, ingredient.Pairing{})

		assert.Contains(t, prompt, "Create a any cuisine recipe using: salt.")
		assert.NotContains(t, prompt, "pair well")
		assert.NotContains(t, prompt, "substitutes")
		assert.NotContains(t, prompt, "dietary")
	})
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
