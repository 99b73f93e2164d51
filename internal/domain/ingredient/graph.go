// Package ingredient implements the ingredient similarity graph: an undirected
// weighted graph over normalized ingredient names with path search, similarity
// scoring and pairing suggestions.
package ingredient

import (
	"math"
	"strings"
	"sync"
)

// Graph is an undirected weighted graph over ingredient names.
//
// Node and neighbor iteration follow insertion order, so breadth-first
// tie-breaks are reproducible across runs. Queries take the read lock and
// mutations the write lock.
type Graph struct {
	mu        sync.RWMutex
	order     []string
	adjacency map[string]*neighbors
	edgeCount int
}

// neighbors keeps the weights of one node's incident edges in insertion order
type neighbors struct {
	order   []string
	weights map[string]float64
}

func newNeighbors() *neighbors {
	return &neighbors{weights: make(map[string]float64)}
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		adjacency: make(map[string]*neighbors),
	}
}

// Normalize lower-cases and trims an ingredient name
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddNode registers name as a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) error {
	name = Normalize(name)
	if name == "" {
		return ErrEmptyIngredient
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(name)
	return nil
}

func (g *Graph) addNode(name string) {
	if _, exists := g.adjacency[name]; exists {
		return
	}
	g.adjacency[name] = newNeighbors()
	g.order = append(g.order, name)
}

// AddEdge links a and b with weight, overwriting any existing weight.
// Both endpoints are added as nodes if absent.
func (g *Graph) AddEdge(a, b string, weight float64) error {
	return g.AddEdgeWithPolicy(a, b, weight, PolicyOverwrite)
}

// AddEdgeWithPolicy links a and b with weight, resolving a clash with an
// existing edge according to policy.
func (g *Graph) AddEdgeWithPolicy(a, b string, weight float64, policy EdgePolicy) error {
	a, b = Normalize(a), Normalize(b)
	if err := validateEdge(a, b, weight); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addEdge(a, b, weight, policy)
}

func validateEdge(a, b string, weight float64) error {
	if a == "" || b == "" {
		return ErrEmptyIngredient
	}
	if a == b {
		return ErrSelfEdge
	}
	if math.IsNaN(weight) || weight <= 0 || weight > 1 {
		return ErrInvalidWeight
	}
	return nil
}

func (g *Graph) addEdge(a, b string, weight float64, policy EdgePolicy) error {
	g.addNode(a)
	g.addNode(b)

	existing, exists := g.adjacency[a].weights[b]
	if exists {
		resolved, err := policy.resolve(existing, weight)
		if err != nil {
			return err
		}
		weight = resolved
	} else {
		g.adjacency[a].order = append(g.adjacency[a].order, b)
		g.adjacency[b].order = append(g.adjacency[b].order, a)
		g.edgeCount++
	}

	g.adjacency[a].weights[b] = weight
	g.adjacency[b].weights[a] = weight
	return nil
}

// WeightedIngredient is a neighbor supplied to AddIngredient
type WeightedIngredient struct {
	Ingredient string  `json:"ingredient" yaml:"ingredient" validate:"required,ingredient"`
	Weight     float64 `json:"weight" yaml:"weight" validate:"gt=0,lte=1"`
}

// AddIngredient adds name and links it to each similar ingredient. The call
// applies every edge or none: weights and policy conflicts are checked
// before the graph is touched.
func (g *Graph) AddIngredient(name string, similar []WeightedIngredient, policy EdgePolicy) error {
	name = Normalize(name)
	if name == "" {
		return ErrEmptyIngredient
	}
	for _, s := range similar {
		if err := validateEdge(name, Normalize(s.Ingredient), s.Weight); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPolicy(name, similar, policy); err != nil {
		return err
	}

	g.addNode(name)
	for _, s := range similar {
		if err := g.addEdge(name, Normalize(s.Ingredient), s.Weight, policy); err != nil {
			return err
		}
	}
	return nil
}

// checkPolicy resolves every edge of an AddIngredient call against the
// current weights, and against earlier edges of the same call, without
// writing. Callers hold the write lock.
func (g *Graph) checkPolicy(name string, similar []WeightedIngredient, policy EdgePolicy) error {
	pending := make(map[string]float64, len(similar))
	for _, s := range similar {
		other := Normalize(s.Ingredient)
		existing, exists := pending[other]
		if !exists {
			existing = g.weight(name, other)
			exists = existing > 0
		}

		weight := s.Weight
		if exists {
			resolved, err := policy.resolve(existing, weight)
			if err != nil {
				return err
			}
			weight = resolved
		}
		pending[other] = weight
	}
	return nil
}

// Clone returns an independent copy of g with the same insertion order
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := &Graph{
		order:     append([]string(nil), g.order...),
		adjacency: make(map[string]*neighbors, len(g.adjacency)),
		edgeCount: g.edgeCount,
	}
	for name, n := range g.adjacency {
		weights := make(map[string]float64, len(n.weights))
		for other, w := range n.weights {
			weights[other] = w
		}
		c.adjacency[name] = &neighbors{
			order:   append([]string(nil), n.order...),
			weights: weights,
		}
	}
	return c
}

// Contains reports whether name is a node of the graph
func (g *Graph) Contains(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adjacency[Normalize(name)]
	return ok
}

// EdgeWeight returns the weight between a and b, or 0 if they are not linked.
func (g *Graph) EdgeWeight(a, b string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.weight(Normalize(a), Normalize(b))
}

func (g *Graph) weight(a, b string) float64 {
	n, ok := g.adjacency[a]
	if !ok {
		return 0
	}
	return n.weights[b]
}

// Neighbors returns the ingredients directly linked to name in insertion order
func (g *Graph) Neighbors(name string) []WeightedIngredient {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.adjacency[Normalize(name)]
	if !ok {
		return nil
	}
	result := make([]WeightedIngredient, 0, len(n.order))
	for _, other := range n.order {
		result = append(result, WeightedIngredient{Ingredient: other, Weight: n.weights[other]})
	}
	return result
}

// Ingredients returns all nodes in insertion order
func (g *Graph) Ingredients() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]string(nil), g.order...)
}

// ShortestPath returns the fewest-hop path from a to b, both ends included.
// Edge weights are ignored. It returns nil when either node is unknown or b
// is unreachable; a path from a node to itself is just that node.
func (g *Graph) ShortestPath(a, b string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.shortestPath(Normalize(a), Normalize(b))
}

func (g *Graph) shortestPath(from, to string) []string {
	if from == to {
		return []string{from}
	}
	if _, ok := g.adjacency[from]; !ok {
		return nil
	}

	parent := map[string]string{}
	visited := map[string]bool{from: true}
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[current].order {
			if next == to {
				parent[to] = current
				return tracePath(parent, from, to)
			}
			if !visited[next] {
				visited[next] = true
				parent[next] = current
				queue = append(queue, next)
			}
		}
	}

	return nil
}

func tracePath(parent map[string]string, from, to string) []string {
	path := []string{to}
	for node := to; node != from; {
		node = parent[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Stats summarizes the graph
type Stats struct {
	NodeCount     int      `json:"nodeCount"`
	EdgeCount     int      `json:"edgeCount"`
	AverageDegree float64  `json:"averageDegree"`
	Components    int      `json:"components"`
	Ingredients   []string `json:"ingredients"`
}

// Stats returns node and edge counts, the average degree and the node list.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Stats{
		NodeCount:   len(g.order),
		EdgeCount:   g.edgeCount,
		Components:  len(g.components()),
		Ingredients: append([]string{}, g.order...),
	}
	if stats.NodeCount > 0 {
		stats.AverageDegree = float64(2*g.edgeCount) / float64(stats.NodeCount)
	}
	return stats
}
