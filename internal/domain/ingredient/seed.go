package ingredient

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Default edge weights of the seed passes
const (
	FlavorGroupWeight   = 0.8
	ComplementaryWeight = 0.7
	CulinaryWeight      = 0.6
	SubstituteWeight    = 0.9
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed describes the initial contents of a graph
type Seed struct {
	Weights            SeedWeights   `yaml:"weights"`
	Vocabulary         []string      `yaml:"vocabulary"`
	FlavorGroups       []FlavorGroup `yaml:"flavor_groups"`
	ComplementaryPairs [][]string    `yaml:"complementary_pairs"`
	CulinaryPairs      [][]string    `yaml:"culinary_pairs"`
	Substitutes        [][]string    `yaml:"substitutes"`
}

// SeedWeights are the edge weights applied by each seed pass. Zero values
// fall back to the package defaults.
type SeedWeights struct {
	FlavorGroup   float64 `yaml:"flavor_group"`
	Complementary float64 `yaml:"complementary"`
	Culinary      float64 `yaml:"culinary"`
	Substitute    float64 `yaml:"substitute"`
}

// FlavorGroup is a set of ingredients sharing a flavor profile. Every pair
// inside a group is linked.
type FlavorGroup struct {
	Name        string   `yaml:"name"`
	Ingredients []string `yaml:"ingredients"`
}

// DefaultSeed returns the embedded seed
func DefaultSeed() (Seed, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeed parses and validates a YAML seed
func LoadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		if err == io.EOF {
			return Seed{}, ErrEmptySeed
		}
		return Seed{}, fmt.Errorf("failed to decode seed: %w", err)
	}

	seed.applyDefaultWeights()
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// LoadSeedFile reads a YAML seed from path
func LoadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return LoadSeed(f)
}

func (s *Seed) applyDefaultWeights() {
	if s.Weights.FlavorGroup == 0 {
		s.Weights.FlavorGroup = FlavorGroupWeight
	}
	if s.Weights.Complementary == 0 {
		s.Weights.Complementary = ComplementaryWeight
	}
	if s.Weights.Culinary == 0 {
		s.Weights.Culinary = CulinaryWeight
	}
	if s.Weights.Substitute == 0 {
		s.Weights.Substitute = SubstituteWeight
	}
}

// Validate checks that the seed has a vocabulary, that weights are in (0, 1],
// and that every pair has two distinct vocabulary ingredients.
func (s Seed) Validate() error {
	if len(s.Vocabulary) == 0 {
		return ErrEmptySeed
	}

	known := make(map[string]bool, len(s.Vocabulary))
	for i, name := range s.Vocabulary {
		name = Normalize(name)
		if name == "" {
			return fmt.Errorf("vocabulary[%d]: %w", i, ErrEmptyIngredient)
		}
		known[name] = true
	}

	weights := map[string]float64{
		"flavor_group":  s.Weights.FlavorGroup,
		"complementary": s.Weights.Complementary,
		"culinary":      s.Weights.Culinary,
		"substitute":    s.Weights.Substitute,
	}
	for pass, w := range weights {
		if w <= 0 || w > 1 {
			return fmt.Errorf("weights.%s=%v: %w", pass, w, ErrInvalidWeight)
		}
	}

	for _, group := range s.FlavorGroups {
		for _, name := range group.Ingredients {
			if !known[Normalize(name)] {
				return fmt.Errorf("flavor group %q: ingredient %q is not in the vocabulary", group.Name, name)
			}
		}
	}

	passes := []struct {
		name  string
		pairs [][]string
	}{
		{"complementary_pairs", s.ComplementaryPairs},
		{"culinary_pairs", s.CulinaryPairs},
		{"substitutes", s.Substitutes},
	}
	for _, pass := range passes {
		for i, pair := range pass.pairs {
			if len(pair) != 2 {
				return fmt.Errorf("%s[%d]: expected 2 ingredients, got %d", pass.name, i, len(pair))
			}
			a, b := Normalize(pair[0]), Normalize(pair[1])
			if a == b {
				return fmt.Errorf("%s[%d]: %w", pass.name, i, ErrSelfEdge)
			}
			for _, name := range []string{a, b} {
				if !known[name] {
					return fmt.Errorf("%s[%d]: ingredient %q is not in the vocabulary", pass.name, i, name)
				}
			}
		}
	}

	return nil
}

// Build creates a graph from seed. Vocabulary nodes are added first, then
// flavor groups, complementary pairs, culinary pairs and substitutes in that
// order, each pass overwriting weights set by the previous ones.
func Build(seed Seed) (*Graph, error) {
	seed.applyDefaultWeights()
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, name := range seed.Vocabulary {
		if err := g.AddNode(name); err != nil {
			return nil, err
		}
	}

	for _, group := range seed.FlavorGroups {
		for i := 0; i < len(group.Ingredients); i++ {
			for j := i + 1; j < len(group.Ingredients); j++ {
				if err := g.AddEdge(group.Ingredients[i], group.Ingredients[j], seed.Weights.FlavorGroup); err != nil {
					return nil, fmt.Errorf("flavor group %q: %w", group.Name, err)
				}
			}
		}
	}

	if err := addPairs(g, seed.ComplementaryPairs, seed.Weights.Complementary); err != nil {
		return nil, fmt.Errorf("complementary pairs: %w", err)
	}
	if err := addPairs(g, seed.CulinaryPairs, seed.Weights.Culinary); err != nil {
		return nil, fmt.Errorf("culinary pairs: %w", err)
	}
	if err := addPairs(g, seed.Substitutes, seed.Weights.Substitute); err != nil {
		return nil, fmt.Errorf("substitutes: %w", err)
	}

	return g, nil
}

func addPairs(g *Graph, pairs [][]string, weight float64) error {
	for _, pair := range pairs {
		if err := g.AddEdge(pair[0], pair[1], weight); err != nil {
			return err
		}
	}
	return nil
}

// NewDefaultGraph builds the graph from the embedded seed
func NewDefaultGraph() (*Graph, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return Build(seed)
}

// MustDefaultGraph is like NewDefaultGraph but panics on error
func MustDefaultGraph() *Graph {
	g, err := NewDefaultGraph()
	if err != nil {
		panic(fmt.Sprintf("ingredient: default seed: %v", err))
	}
	return g
}
