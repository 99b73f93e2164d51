package ingredient

import "fmt"

// Extension is an ingredient added to the graph after it was built from the
// seed. Extensions are stored so they can be replayed onto a rebuilt graph.
type Extension struct {
	Name    string               `json:"name"`
	Similar []WeightedIngredient `json:"similar"`
	Policy  EdgePolicy           `json:"-"`
}

// Apply adds the extension to g
func (e Extension) Apply(g *Graph) error {
	return g.AddIngredient(e.Name, e.Similar, e.Policy)
}

// Replay applies extensions in order, stopping at the first failure
func Replay(g *Graph, extensions []Extension) error {
	for _, ext := range extensions {
		if err := ext.Apply(g); err != nil {
			return fmt.Errorf("replay %q: %w", ext.Name, err)
		}
	}
	return nil
}
