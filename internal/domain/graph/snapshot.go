package graph

import (
	"fmt"

	"github.com/Bestroi150/georgievi-network/internal/domain"
)

// SnapshotNode is the serialized form of a Node.
type SnapshotNode struct {
	Key    string   `json:"key"`
	Kind   NodeKind `json:"kind"`
	Weight int      `json:"weight"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

// SnapshotEdge is the serialized form of an Edge.
type SnapshotEdge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Snapshot is the serialized form of a Graph, with nodes and edges in
// canonical order so equal graphs serialize identically.
type Snapshot struct {
	Kind  Kind           `json:"kind"`
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// Snapshot exports the graph for caching or transport.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{Kind: g.kind}
	for _, n := range g.Nodes() {
		sn := SnapshotNode{Key: n.key, Kind: n.kind, Weight: n.weight}
		if n.hasCoords {
			lat, lon := n.lat, n.lon
			sn.Lat, sn.Lon = &lat, &lon
		}
		s.Nodes = append(s.Nodes, sn)
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, SnapshotEdge{A: e.a, B: e.b, Weight: e.weight})
	}
	return s
}

// FromSnapshot rebuilds a Graph from its serialized form, re-checking the
// structural invariants so a corrupt cache entry cannot produce an
// invalid graph.
func FromSnapshot(s Snapshot) (*Graph, error) {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return nil, fmt.Errorf("%w: snapshot kind %q", domain.ErrInvalidGraph, s.Kind)
	}
	b := NewBuilder(s.Kind)
	for _, n := range s.Nodes {
		if err := b.AddNode(n.Key, n.Kind, n.Weight); err != nil {
			return nil, err
		}
		if n.Lat != nil && n.Lon != nil {
			if err := b.SetNodeCoords(n.Key, *n.Lat, *n.Lon); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range s.Edges {
		if err := b.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
