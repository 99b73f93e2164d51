package ingredient_test

import (
	"testing"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// PairingTestSuite covers multi-ingredient suggestion aggregation
type PairingTestSuite struct {
	suite.Suite
	graph      *ingredient.Graph
	factory    *testutils.IngredientFactory
	assertions *testutils.SuggestionAssertions
}

// SetupSuite initializes the test suite
func (suite *PairingTestSuite) SetupSuite() {
	suite.graph = ingredient.MustDefaultGraph()
	suite.factory = testutils.NewIngredientFactory(time.Now().UnixNano())
}

// SetupTest binds assertions to the running test
func (suite *PairingTestSuite) SetupTest() {
	suite.assertions = testutils.NewSuggestionAssertions(suite.T())
}

func (suite *PairingTestSuite) TestPairing() {
	suite.Run("ChickenGarlic_ShouldConcatenateInInputOrder", func() {
		// Act
		pairing := suite.graph.Pairing([]string{"chicken", "garlic"}, 5)

		// Assert
		assert.Equal(suite.T(),
			[]string{"turkey", "garlic", "ginger", "lemon", "cumin"},
			testutils.Names(pairing.Complementary))
		assert.Equal(suite.T(),
			[]string{"turkey", "garlic powder", "onion", "ginger", "cheese"},
			testutils.Names(pairing.Substitutes))
		assert.Equal(suite.T(),
			"turkey pairs well with your ingredients due to complementary flavor profiles. "+
				"turkey can be used as a substitute if you're missing any ingredients.",
			pairing.Reasoning)
	})

	suite.Run("RandomInputs_ShouldStayUniqueAndWithinLimit", func() {
		for i := 0; i < 20; i++ {
			names := suite.factory.KnownIngredients(4)
			limit := i%6 + 1

			pairing := suite.graph.Pairing(names, limit)

			assert.LessOrEqual(suite.T(), len(pairing.Complementary), limit)
			assert.LessOrEqual(suite.T(), len(pairing.Substitutes), limit)
			suite.assertions.Unique(pairing.Complementary)
			suite.assertions.Unique(pairing.Substitutes)
		}
	})

	suite.Run("EmptyInput_ShouldReturnEmptyResult", func() {
		pairing := suite.graph.Pairing(nil, 5)

		assert.Empty(suite.T(), pairing.Complementary)
		assert.Empty(suite.T(), pairing.Substitutes)
		assert.Empty(suite.T(), pairing.Reasoning)
	})

	suite.Run("UnknownOnly_ShouldReturnEmptyResult", func() {
		pairing := suite.graph.Pairing([]string{suite.factory.UnknownIngredient()}, 5)

		assert.Empty(suite.T(), pairing.Complementary)
		assert.Empty(suite.T(), pairing.Substitutes)
		assert.Empty(suite.T(), pairing.Reasoning)
	})

	suite.Run("ComplementaryOnly_ShouldMentionOnlyPairing", func() {
		// herbs only links to fish at 0.7, below the substitute threshold
		pairing := suite.graph.Pairing([]string{"herbs"}, 5)

		require.NotEmpty(suite.T(), pairing.Complementary)
		assert.Empty(suite.T(), pairing.Substitutes)
		assert.Equal(suite.T(), "fish pairs well with your ingredients due to complementary flavor profiles.", pairing.Reasoning)
	})

	suite.Run("ZeroLimit_ShouldReturnEmptyLists", func() {
		pairing := suite.graph.Pairing([]string{"chicken"}, 0)

		assert.NotNil(suite.T(), pairing.Complementary)
		assert.Empty(suite.T(), pairing.Complementary)
		assert.Empty(suite.T(), pairing.Substitutes)
	})
}

func (suite *PairingTestSuite) TestSorted() {
	suite.Run("ShouldOrderByScoreAndKeepReasoning", func() {
		// Arrange
		pairing := suite.graph.Pairing([]string{"herbs", "milk"}, 10)

		// Act
		sorted := pairing.Sorted()

		// Assert
		suite.assertions.SortedDescending(sorted.Complementary)
		suite.assertions.SortedDescending(sorted.Substitutes)
		assert.ElementsMatch(suite.T(), pairing.Complementary, sorted.Complementary)
		assert.Equal(suite.T(), pairing.Reasoning, sorted.Reasoning)
		assert.Equal(suite.T(), "fish", pairing.Complementary[0].Ingredient, "unsorted result keeps input order")
	})
}

func (suite *PairingTestSuite) TestAggregates() {
	suite.Run("ComplementaryFor_ShouldNameTopThree", func() {
		aggregate := suite.graph.ComplementaryFor([]string{"chicken", "garlic"}, 5)

		assert.Equal(suite.T(),
			[]string{"turkey", "garlic", "ginger", "lemon", "cumin"},
			testutils.Names(aggregate.Suggestions))
		assert.Equal(suite.T(),
			"Based on flavor profile analysis, turkey, garlic, ginger would pair well with your ingredients. "+
				"These suggestions are based on culinary traditions and flavor compatibility.",
			aggregate.Reasoning)
	})

	suite.Run("SubstitutesFor_ShouldNameAllWhenFewerThanThree", func() {
		aggregate := suite.graph.SubstitutesFor([]string{"rice"}, 5)

		assert.Equal(suite.T(), []string{"quinoa", "couscous"}, testutils.Names(aggregate.Suggestions))
		assert.Equal(suite.T(),
			"If you're missing any ingredients, quinoa, couscous can be used as alternatives. "+
				"These substitutes maintain similar flavor profiles and cooking properties.",
			aggregate.Reasoning)
	})

	suite.Run("Sorted_ShouldReorderAcrossIngredients", func() {
		aggregate := suite.graph.ComplementaryFor([]string{"chicken", "tomato"}, 10)

		sorted := aggregate.Sorted()

		suite.assertions.SortedDescending(sorted.Suggestions)
		assert.ElementsMatch(suite.T(), aggregate.Suggestions, sorted.Suggestions)
		assert.Equal(suite.T(), aggregate.Reasoning, sorted.Reasoning)
	})

	suite.Run("NoResults_ShouldUseFallbackReasoning", func() {
		assert.Equal(suite.T(),
			"No strong complementary ingredients found for the provided ingredients.",
			suite.graph.ComplementaryFor([]string{"salt"}, 5).Reasoning)
		assert.Equal(suite.T(),
			"No suitable substitutes found for the provided ingredients.",
			suite.graph.SubstitutesFor([]string{"herbs"}, 5).Reasoning)
	})
}

func TestPairingTestSuite(t *testing.T) {
	suite.Run(t, new(PairingTestSuite))
}
