package georgievi

import (
	"context"
	"fmt"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/usecase/analyze"
)

// Node is a graph vertex. Lat/Lon are set only for georeferenced places.
type Node struct {
	Key    string
	Kind   string
	Weight int
	Lat    *float64
	Lon    *float64
}

// Edge is an undirected weighted edge with endpoints in lexicographic
// order.
type Edge struct {
	A      string
	B      string
	Weight int
}

// Summary is the structural overview of a projection.
type Summary struct {
	Nodes       int
	Edges       int
	TotalWeight int
	Density     float64
	Connected   bool
	Components  int
}

// Graph is a built projection. It keeps a handle to the underlying
// structure so metrics can be computed without rebuilding.
type Graph struct {
	inner *graph.Graph
	seed  int64
}

// Nodes returns the vertices in canonical order.
func (g *Graph) Nodes() []Node {
	snap := g.inner.Snapshot()
	out := make([]Node, len(snap.Nodes))
	for i, n := range snap.Nodes {
		out[i] = Node{
			Key:    n.Key,
			Kind:   n.Kind.String(),
			Weight: n.Weight,
			Lat:    n.Lat,
			Lon:    n.Lon,
		}
	}
	return out
}

// Edges returns the edges in canonical order.
func (g *Graph) Edges() []Edge {
	snap := g.inner.Snapshot()
	out := make([]Edge, len(snap.Edges))
	for i, e := range snap.Edges {
		out[i] = Edge{A: e.A, B: e.B, Weight: e.Weight}
	}
	return out
}

// Summary returns the structural overview.
func (g *Graph) Summary() Summary {
	s := analyze.Summarize(g.inner)
	return Summary{
		Nodes:       s.Nodes,
		Edges:       s.Edges,
		TotalWeight: s.TotalWeight,
		Density:     s.Density,
		Connected:   s.Connected,
		Components:  s.Components,
	}
}

// Degree returns weighted degree centrality per node key.
func (g *Graph) Degree() (map[string]float64, error) {
	scores, err := analyze.Degree(g.inner)
	if err != nil {
		return nil, fmt.Errorf("degree: %w", err)
	}
	return scores, nil
}

// Betweenness returns betweenness centrality per node key. The context
// cancels the computation on large graphs.
func (g *Graph) Betweenness(ctx context.Context) (map[string]float64, error) {
	scores, err := analyze.Betweenness(ctx, g.inner)
	if err != nil {
		return nil, fmt.Errorf("betweenness: %w", err)
	}
	return scores, nil
}

// Closeness returns closeness centrality per node key, computed within
// each node's connected component.
func (g *Graph) Closeness() (map[string]float64, error) {
	scores, err := analyze.Closeness(g.inner)
	if err != nil {
		return nil, fmt.Errorf("closeness: %w", err)
	}
	return scores, nil
}

// Communities returns a community id per node key. Deterministic for a
// fixed graph and engine seed.
func (g *Graph) Communities() (map[string]int, error) {
	communities, err := analyze.Communities(g.inner, g.seed)
	if err != nil {
		return nil, fmt.Errorf("communities: %w", err)
	}
	return communities, nil
}

// Components returns the connected components, each sorted by node key.
func (g *Graph) Components() [][]string {
	return analyze.Components(g.inner)
}
