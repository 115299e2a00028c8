package analyze

import (
	"testing"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
)

type edge struct {
	a, b string
	w    int
}

func buildGraph(t *testing.T, nodes map[string]int, edges []edge) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(graph.KindSocial)
	for key, w := range nodes {
		if err := b.AddNode(key, graph.NodePerson, w); err != nil {
			t.Fatalf("AddNode(%q): %v", key, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e.a, e.b, e.w); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e.a, e.b, err)
		}
	}
	return b.Build()
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
