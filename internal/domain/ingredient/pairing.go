package ingredient

import (
	"fmt"
	"sort"
	"strings"
)

// reasoningTop is how many names the aggregate reasoning mentions
const reasoningTop = 3

// Pairing holds combined suggestions for a set of ingredients
type Pairing struct {
	Complementary []Suggestion `json:"complementary"`
	Substitutes   []Suggestion `json:"substitutes"`
	Reasoning     string       `json:"reasoning"`
}

// Pairing concatenates the complementary and substitute suggestions of every
// name in order, drops repeated ingredients keeping the first occurrence and
// truncates each list to limit. Lists are not re-sorted across ingredients.
func (g *Graph) Pairing(names []string, limit int) Pairing {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var complementary, substitutes []Suggestion
	for _, name := range names {
		name = Normalize(name)
		complementary = append(complementary, g.rank(name, limit, ComplementaryThreshold)...)
		substitutes = append(substitutes, g.rank(name, limit, SubstituteThreshold)...)
	}

	complementary = dedupe(complementary)
	substitutes = dedupe(substitutes)

	return Pairing{
		Complementary: truncate(complementary, limit),
		Substitutes:   truncate(substitutes, limit),
		Reasoning:     pairingReasoning(complementary, substitutes),
	}
}

// Sorted returns a copy with both lists ordered by descending score.
// Equal scores keep their relative order.
func (p Pairing) Sorted() Pairing {
	return Pairing{
		Complementary: sortByScore(p.Complementary),
		Substitutes:   sortByScore(p.Substitutes),
		Reasoning:     p.Reasoning,
	}
}

func pairingReasoning(complementary, substitutes []Suggestion) string {
	var reasons []string
	if len(complementary) > 0 {
		reasons = append(reasons, fmt.Sprintf("%s pairs well with your ingredients due to complementary flavor profiles.", complementary[0].Ingredient))
	}
	if len(substitutes) > 0 {
		reasons = append(reasons, fmt.Sprintf("%s can be used as a substitute if you're missing any ingredients.", substitutes[0].Ingredient))
	}
	return strings.Join(reasons, " ")
}

// Aggregate is a single suggestion list for a set of ingredients
type Aggregate struct {
	Suggestions []Suggestion `json:"suggestions"`
	Reasoning   string       `json:"reasoning"`
}

// ComplementaryFor merges the complementary suggestions of every name,
// keeping the first occurrence of each ingredient.
func (g *Graph) ComplementaryFor(names []string, limit int) Aggregate {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := dedupe(g.collect(names, limit, ComplementaryThreshold))
	reasoning := "No strong complementary ingredients found for the provided ingredients."
	if len(all) > 0 {
		reasoning = fmt.Sprintf("Based on flavor profile analysis, %s would pair well with your ingredients. These suggestions are based on culinary traditions and flavor compatibility.", joinTop(all))
	}

	return Aggregate{Suggestions: truncate(all, limit), Reasoning: reasoning}
}

// SubstitutesFor merges the substitute suggestions of every name,
// keeping the first occurrence of each ingredient.
func (g *Graph) SubstitutesFor(names []string, limit int) Aggregate {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := dedupe(g.collect(names, limit, SubstituteThreshold))
	reasoning := "No suitable substitutes found for the provided ingredients."
	if len(all) > 0 {
		reasoning = fmt.Sprintf("If you're missing any ingredients, %s can be used as alternatives. These substitutes maintain similar flavor profiles and cooking properties.", joinTop(all))
	}

	return Aggregate{Suggestions: truncate(all, limit), Reasoning: reasoning}
}

// Sorted returns a copy ordered by descending score
func (a Aggregate) Sorted() Aggregate {
	return Aggregate{Suggestions: sortByScore(a.Suggestions), Reasoning: a.Reasoning}
}

func (g *Graph) collect(names []string, limit int, threshold float64) []Suggestion {
	var all []Suggestion
	for _, name := range names {
		all = append(all, g.rank(Normalize(name), limit, threshold)...)
	}
	return all
}

func joinTop(suggestions []Suggestion) string {
	top := suggestions
	if len(top) > reasoningTop {
		top = top[:reasoningTop]
	}
	names := make([]string, 0, len(top))
	for _, s := range top {
		names = append(names, s.Ingredient)
	}
	return strings.Join(names, ", ")
}

func dedupe(suggestions []Suggestion) []Suggestion {
	seen := make(map[string]bool, len(suggestions))
	result := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if seen[s.Ingredient] {
			continue
		}
		seen[s.Ingredient] = true
		result = append(result, s)
	}
	return result
}

func truncate(suggestions []Suggestion, limit int) []Suggestion {
	if limit <= 0 {
		return []Suggestion{}
	}
	if len(suggestions) > limit {
		return suggestions[:limit]
	}
	return suggestions
}

func sortByScore(suggestions []Suggestion) []Suggestion {
	result := append([]Suggestion{}, suggestions...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
