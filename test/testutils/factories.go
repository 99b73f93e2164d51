// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
)

// IngredientFactory provides methods to create test ingredient names and graphs
type IngredientFactory struct {
	faker *gofakeit.Faker
	known []string
}

// NewIngredientFactory creates a new ingredient factory with seeded faker
func NewIngredientFactory(seed int64) *IngredientFactory {
	return &IngredientFactory{
		faker: gofakeit.New(seed),
		known: ingredient.MustDefaultGraph().Ingredients(),
	}
}

// KnownIngredient returns a random ingredient from the default seed
func (f *IngredientFactory) KnownIngredient() string {
	return f.known[f.faker.IntRange(0, len(f.known)-1)]
}

// KnownIngredients returns n random seed ingredients, possibly repeated
func (f *IngredientFactory) KnownIngredients(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = f.KnownIngredient()
	}
	return names
}

// UnknownIngredient returns a name that is not part of the default seed
func (f *IngredientFactory) UnknownIngredient() string {
	return fmt.Sprintf("%s %s %d", f.faker.Adjective(), f.faker.Noun(), f.faker.Number(1000, 9999))
}

// Weight returns a valid edge weight in (0, 1]
func (f *IngredientFactory) Weight() float64 {
	return f.faker.Float64Range(0.05, 1.0)
}

// Messy returns name with random casing and padding, as a client might send it
func (f *IngredientFactory) Messy(name string) string {
	if f.faker.Bool() {
		name = strings.ToUpper(name)
	}
	return strings.Repeat(" ", f.faker.IntRange(0, 3)) + name + strings.Repeat(" ", f.faker.IntRange(0, 3))
}

// RandomGraph builds a graph of size nodes with roughly edges random links
func (f *IngredientFactory) RandomGraph(size, edges int) *ingredient.Graph {
	g := ingredient.NewGraph()
	names := make([]string, size)
	for i := range names {
		names[i] = fmt.Sprintf("ingredient-%d-%s", i, f.faker.Noun())
		_ = g.AddNode(names[i])
	}
	if size < 2 {
		return g
	}
	for i := 0; i < edges; i++ {
		a := names[f.faker.IntRange(0, size-1)]
		b := names[f.faker.IntRange(0, size-1)]
		if a == b {
			continue
		}
		_ = g.AddEdge(a, b, f.Weight())
	}
	return g
}

// GraphBuilder provides a fluent interface for building small test graphs
type GraphBuilder struct {
	graph *ingredient.Graph
	err   error
}

// NewGraphBuilder creates an empty graph builder
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{graph: ingredient.NewGraph()}
}

// WithNode adds an isolated node
func (b *GraphBuilder) WithNode(name string) *GraphBuilder {
	if b.err == nil {
		b.err = b.graph.AddNode(name)
	}
	return b
}

// WithEdge adds a weighted edge
func (b *GraphBuilder) WithEdge(from, to string, weight float64) *GraphBuilder {
	if b.err == nil {
		b.err = b.graph.AddEdge(from, to, weight)
	}
	return b
}

// WithChain links names in sequence with the same weight
func (b *GraphBuilder) WithChain(weight float64, names ...string) *GraphBuilder {
	for i := 0; i+1 < len(names); i++ {
		b.WithEdge(names[i], names[i+1], weight)
	}
	return b
}

// Build returns the graph or the first error hit while building it
func (b *GraphBuilder) Build() (*ingredient.Graph, error) {
	return b.graph, b.err
}

// SimilarityRequestBuilder builds similarity query requests
type SimilarityRequestBuilder struct {
	req inbound.SimilarityRequest
}

// NewSimilarityRequest starts a request for ingredients
func NewSimilarityRequest(ingredients ...string) *SimilarityRequestBuilder {
	return &SimilarityRequestBuilder{req: inbound.SimilarityRequest{Ingredients: ingredients}}
}

// WithAction sets the action
func (b *SimilarityRequestBuilder) WithAction(action string) *SimilarityRequestBuilder {
	b.req.Action = action
	return b
}

// WithLimit sets the limit
func (b *SimilarityRequestBuilder) WithLimit(limit int) *SimilarityRequestBuilder {
	b.req.Limit = &limit
	return b
}

// SortedByScore asks for pairing lists ordered by score
func (b *SimilarityRequestBuilder) SortedByScore() *SimilarityRequestBuilder {
	b.req.Sort = "score"
	return b
}

// Build returns the request
func (b *SimilarityRequestBuilder) Build() inbound.SimilarityRequest {
	return b.req
}
