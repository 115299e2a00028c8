package graph

import (
	"fmt"
	"sort"

	"github.com/Bestroi150/georgievi-network/internal/domain"
)

// Node is a weighted vertex in a projection.
type Node struct {
	key       string
	kind      NodeKind
	weight    int
	lat, lon  float64
	hasCoords bool
}

// Key returns the node identity within its graph.
func (n Node) Key() string { return n.key }

// Kind returns what the node stands for.
func (n Node) Kind() NodeKind { return n.kind }

// Weight returns the accumulated node weight. Always positive.
func (n Node) Weight() int { return n.weight }

// Coords returns the node coordinates, valid only when ok is true.
// Set only on georeferenced place nodes.
func (n Node) Coords() (lat, lon float64, ok bool) { return n.lat, n.lon, n.hasCoords }

// Edge is an undirected weighted edge. Endpoints are stored in
// lexicographic order so (a, b) and (b, a) are the same edge.
type Edge struct {
	a, b   string
	weight int
}

// Endpoints returns the edge endpoints in canonical order.
func (e Edge) Endpoints() (a, b string) { return e.a, e.b }

// Weight returns the accumulated edge weight. Always positive.
func (e Edge) Weight() int { return e.weight }

type edgeKey struct{ a, b string }

func canonical(a, b string) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// Graph is an immutable undirected weighted projection. Build one with a
// Builder; a stale graph is replaced by rebuilding, never mutated.
type Graph struct {
	kind  Kind
	nodes map[string]Node
	edges map[edgeKey]int
}

// Kind returns the projection kind the graph was built as.
func (g *Graph) Kind() Kind { return g.kind }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node looks up a node by key.
func (g *Graph) Node(key string) (Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Nodes returns every node sorted by key.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Edges returns every edge sorted by canonical endpoints.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for k, w := range g.edges {
		out = append(out, Edge{a: k.a, b: k.b, weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

// EdgeWeight returns the weight between two nodes, 0 when no edge exists.
func (g *Graph) EdgeWeight(a, b string) int { return g.edges[canonical(a, b)] }

// Neighbors returns the keys adjacent to a node, sorted.
func (g *Graph) Neighbors(key string) []string {
	var out []string
	for k := range g.edges {
		switch key {
		case k.a:
			out = append(out, k.b)
		case k.b:
			out = append(out, k.a)
		}
	}
	sort.Strings(out)
	return out
}

// WeightedDegree returns the sum of edge weights incident to a node.
func (g *Graph) WeightedDegree(key string) int {
	total := 0
	for k, w := range g.edges {
		if k.a == key || k.b == key {
			total += w
		}
	}
	return total
}

// TotalEdgeWeight returns the sum of all edge weights.
func (g *Graph) TotalEdgeWeight() int {
	total := 0
	for _, w := range g.edges {
		total += w
	}
	return total
}

// Density returns the fraction of possible edges present, 0 for graphs
// with fewer than two nodes.
func (g *Graph) Density() float64 {
	n := len(g.nodes)
	if n < 2 {
		return 0
	}
	return float64(2*len(g.edges)) / float64(n*(n-1))
}

// Builder accumulates nodes and edges and produces an immutable Graph.
// The zero Builder is not usable; create one with NewBuilder.
type Builder struct {
	kind  Kind
	nodes map[string]Node
	edges map[edgeKey]int
}

// NewBuilder creates a Builder for the given projection kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{kind: kind, nodes: make(map[string]Node), edges: make(map[edgeKey]int)}
}

// AddNode records a node occurrence, creating it or adding delta to its
// weight. Re-adding with a different kind is a structural defect.
func (b *Builder) AddNode(key string, kind NodeKind, delta int) error {
	if key == "" {
		return fmt.Errorf("%w: empty node key", domain.ErrInvalidGraph)
	}
	if delta <= 0 {
		return fmt.Errorf("%w: node %q: non-positive weight delta %d", domain.ErrInvalidGraph, key, delta)
	}
	if n, ok := b.nodes[key]; ok {
		if n.kind != kind {
			return fmt.Errorf("%w: node %q is %s, re-added as %s", domain.ErrInvalidGraph, key, n.kind, kind)
		}
		n.weight += delta
		b.nodes[key] = n
		return nil
	}
	b.nodes[key] = Node{key: key, kind: kind, weight: delta}
	return nil
}

// SetNodeCoords georeferences an existing node.
func (b *Builder) SetNodeCoords(key string, lat, lon float64) error {
	n, ok := b.nodes[key]
	if !ok {
		return fmt.Errorf("%w: coords for unknown node %q", domain.ErrInvalidGraph, key)
	}
	n.lat, n.lon, n.hasCoords = lat, lon, true
	b.nodes[key] = n
	return nil
}

// AddEdge records an edge occurrence between two existing nodes, adding
// delta to its weight. Self-edges are rejected. On economic graphs the
// endpoints must differ in kind (bipartite invariant).
func (b *Builder) AddEdge(a, bKey string, delta int) error {
	if a == bKey {
		return fmt.Errorf("%w: self-edge on %q", domain.ErrInvalidGraph, a)
	}
	if delta <= 0 {
		return fmt.Errorf("%w: edge (%q, %q): non-positive weight delta %d", domain.ErrInvalidGraph, a, bKey, delta)
	}
	na, ok := b.nodes[a]
	if !ok {
		return fmt.Errorf("%w: edge references unknown node %q", domain.ErrInvalidGraph, a)
	}
	nb, ok := b.nodes[bKey]
	if !ok {
		return fmt.Errorf("%w: edge references unknown node %q", domain.ErrInvalidGraph, bKey)
	}
	if b.kind == KindEconomic && na.kind == nb.kind {
		return fmt.Errorf("%w: bipartite edge between two %s nodes (%q, %q)",
			domain.ErrInvalidGraph, na.kind, a, bKey)
	}
	b.edges[canonical(a, bKey)] += delta
	return nil
}

// Build seals the accumulated state into a Graph. The Builder must not be
// used afterwards.
func (b *Builder) Build() *Graph {
	g := &Graph{kind: b.kind, nodes: b.nodes, edges: b.edges}
	b.nodes, b.edges = nil, nil
	return g
}
