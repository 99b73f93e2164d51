package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommand(t *testing.T) {
	t.Run("JSON_ShouldMatchServiceResponse", func(t *testing.T) {
		// Act
		out, err := run(t, "query", "--json", "-a", "substitutes", "-n", "2", "Milk")

		// Assert
		require.NoError(t, err)
		var resp inbound.SimilarityResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.NotNil(t, resp.SuggestionList)
		assert.Equal(t, []string{"milk"}, resp.BaseIngredients)
		require.Len(t, resp.Suggestions, 2)
		assert.Equal(t, "yogurt", resp.Suggestions[0].Ingredient)
	})

	t.Run("Table_ShouldListBothSections", func(t *testing.T) {
		out, err := run(t, "query", "chicken", "garlic")

		require.NoError(t, err)
		assert.Contains(t, out, "complementary:")
		assert.Contains(t, out, "substitutes:")
		assert.Contains(t, out, "garlic powder")
	})

	t.Run("UnknownAction_ShouldFail", func(t *testing.T) {
		_, err := run(t, "query", "-a", "blend", "tomato")

		assert.Error(t, err)
	})

	t.Run("UnknownIngredient_ShouldBeReported", func(t *testing.T) {
		out, err := run(t, "query", "-a", "complementary", "dragonfruit")

		require.NoError(t, err)
		assert.Contains(t, out, "(none)")
		assert.Contains(t, out, "unknown: dragonfruit")
	})
}

func TestPairCommand(t *testing.T) {
	t.Run("Weighted_ShouldPrintPath", func(t *testing.T) {
		out, err := run(t, "pair", "shallot", "leek", "-s", "weighted")

		require.NoError(t, err)
		assert.Regexp(t, `shallot ~ leek = 0\.\d{4} \(weighted\)`, out)
		assert.Contains(t, out, "path: shallot -> onion -> leek")
	})

	t.Run("Unreachable_ShouldSaySo", func(t *testing.T) {
		out, err := run(t, "pair", "honey", "garlic")

		require.NoError(t, err)
		assert.Contains(t, out, "= 0.0000")
		assert.Contains(t, out, "path: unreachable")
	})
}

func TestStatsAndValidateSeed(t *testing.T) {
	t.Run("Stats_ShouldDescribeEmbeddedSeed", func(t *testing.T) {
		out, err := run(t, "stats")

		require.NoError(t, err)
		assert.Contains(t, out, "nodes: 75")
		assert.Contains(t, out, "edges: 163")
		assert.Contains(t, out, "components: 14")
	})

	t.Run("CustomSeed_ShouldBeUsed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vocabulary: [tomato, basil]\ncomplementary_pairs:\n  - [tomato, basil]\n"), 0o644))

		out, err := run(t, "--seed", path, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "nodes: 2")

		out, err = run(t, "validate-seed", path)
		require.NoError(t, err)
		assert.Contains(t, out, "ok (2 ingredients, 1 edges)")
	})

	t.Run("InvalidSeed_ShouldFail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vocabulary: [tomato]\nsubstitutes:\n  - [tomato, tomato]\n"), 0o644))

		_, err := run(t, "validate-seed", path)

		assert.Error(t, err)
	})
}
