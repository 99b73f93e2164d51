package ingredient

import (
	"math"
	"sort"
)

// Score thresholds for suggestions
const (
	ComplementaryThreshold = 0.3
	SubstituteThreshold    = 0.7
)

// Suggestion is a ranked ingredient
type Suggestion struct {
	Ingredient string  `json:"ingredient"`
	Score      float64 `json:"score"`
}

// Similarity scores a and b in [0, 1]. Identical names score 1, unrelated
// or unknown names score 0. Otherwise the score is the mean edge weight
// along the fewest-hop path divided by the hop count, capped at 1.
//
// The path is searched from the lexicographically smaller name so the score
// does not depend on argument order.
func (g *Graph) Similarity(a, b string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.similarity(Normalize(a), Normalize(b))
}

func (g *Graph) similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if b < a {
		a, b = b, a
	}
	return g.pathScore(g.shortestPath(a, b))
}

// pathScore applies the hop penalty to the average weight of path
func (g *Graph) pathScore(path []string) float64 {
	if len(path) < 2 {
		return 0
	}

	hops := len(path) - 1
	total := 0.0
	for i := 0; i < hops; i++ {
		total += g.weight(path[i], path[i+1])
	}

	avgWeight := total / float64(hops)
	pathPenalty := 1 / float64(hops)
	return math.Min(1.0, avgWeight*pathPenalty)
}

// Complementary returns up to limit ingredients scoring above
// ComplementaryThreshold against name, best first.
func (g *Graph) Complementary(name string, limit int) []Suggestion {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.rank(Normalize(name), limit, ComplementaryThreshold)
}

// Substitutes returns up to limit ingredients scoring above
// SubstituteThreshold against name, best first.
func (g *Graph) Substitutes(name string, limit int) []Suggestion {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.rank(Normalize(name), limit, SubstituteThreshold)
}

func (g *Graph) rank(name string, limit int, threshold float64) []Suggestion {
	result := []Suggestion{}
	if limit <= 0 {
		return result
	}
	if _, ok := g.adjacency[name]; !ok {
		return result
	}

	for _, node := range g.order {
		if node == name {
			continue
		}
		if score := g.similarity(name, node); score > threshold {
			result = append(result, Suggestion{Ingredient: node, Score: score})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
