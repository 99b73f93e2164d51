package ingredient

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// weightedView is a gonum copy of the graph. Edge weights are stored as
// costs, -ln(w), so the cheapest path is the one with the largest weight
// product.
type weightedView struct {
	graph *simple.WeightedUndirectedGraph
	ids   map[string]int64
	names []string
}

// view builds a gonum graph from the current state. Callers hold the read lock.
func (g *Graph) view() *weightedView {
	v := &weightedView{
		graph: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:   make(map[string]int64, len(g.order)),
		names: make([]string, 0, len(g.order)),
	}

	for i, name := range g.order {
		id := int64(i)
		v.ids[name] = id
		v.names = append(v.names, name)
		v.graph.AddNode(simple.Node(id))
	}

	for _, name := range g.order {
		from := v.ids[name]
		for _, other := range g.adjacency[name].order {
			to := v.ids[other]
			if to < from {
				continue
			}
			edge := v.graph.NewWeightedEdge(simple.Node(from), simple.Node(to), edgeCost(g.adjacency[name].weights[other]))
			v.graph.SetWeightedEdge(edge)
		}
	}

	return v
}

func edgeCost(weight float64) float64 {
	return -math.Log(weight)
}

// components returns the connected components. Callers hold the read lock.
func (g *Graph) components() [][]string {
	if len(g.order) == 0 {
		return nil
	}

	v := g.view()
	var result [][]string
	for _, component := range topo.ConnectedComponents(v.graph) {
		names := make([]string, 0, len(component))
		for _, node := range component {
			names = append(names, v.names[node.ID()])
		}
		result = append(result, names)
	}
	return result
}

// Components returns the ingredient groups that are mutually reachable
func (g *Graph) Components() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.components()
}

// StrongestPath returns the path from a to b that maximizes the product of
// edge weights, together with that product. Unknown or unreachable
// ingredients yield a nil path and 0.
func (g *Graph) StrongestPath(a, b string) ([]string, float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.strongestPath(Normalize(a), Normalize(b))
}

func (g *Graph) strongestPath(from, to string) ([]string, float64) {
	if _, ok := g.adjacency[from]; !ok {
		return nil, 0
	}
	if _, ok := g.adjacency[to]; !ok {
		return nil, 0
	}
	if from == to {
		return []string{from}, 1.0
	}

	v := g.view()
	shortest := path.DijkstraFrom(simple.Node(v.ids[from]), v.graph)
	nodes, cost := shortest.To(v.ids[to])
	if len(nodes) == 0 || math.IsInf(cost, 1) {
		return nil, 0
	}

	result := make([]string, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, v.names[node.ID()])
	}
	return result, math.Exp(-cost)
}

// WeightedSimilarity scores a and b with the hop-penalized average used by
// Similarity, but along the strongest path rather than the fewest-hop one.
// It returns the path it scored.
func (g *Graph) WeightedSimilarity(a, b string) (float64, []string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1.0, []string{a}
	}
	if b < a {
		p, _ := g.strongestPath(b, a)
		reversed := make([]string, len(p))
		for i := range p {
			reversed[len(p)-1-i] = p[i]
		}
		return g.pathScore(p), nilIfEmpty(reversed)
	}
	p, _ := g.strongestPath(a, b)
	return g.pathScore(p), p
}

func nilIfEmpty(p []string) []string {
	if len(p) == 0 {
		return nil
	}
	return p
}
