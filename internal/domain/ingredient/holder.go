package ingredient

import "sync/atomic"

// Holder publishes the current graph. A rebuilt graph can be swapped in
// while readers keep using the one they loaded.
type Holder struct {
	current atomic.Pointer[Graph]
}

// NewHolder returns a holder serving g
func NewHolder(g *Graph) *Holder {
	h := &Holder{}
	h.current.Store(g)
	return h
}

// Graph returns the current graph
func (h *Holder) Graph() *Graph {
	return h.current.Load()
}

// Swap replaces the current graph and returns the previous one
func (h *Holder) Swap(g *Graph) *Graph {
	return h.current.Swap(g)
}
