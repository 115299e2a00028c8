package analyze

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
)

// Betweenness returns betweenness centrality per node over shortest
// paths, where an edge of weight w has length 1/w. Scores are normalized
// by the number of node pairs; graphs with fewer than three nodes score
// zero everywhere. The context is checked between source iterations.
func Betweenness(ctx context.Context, g *graph.Graph) (map[string]float64, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: betweenness centrality on an empty graph", domain.ErrEmptyGraph)
	}

	cb := make(map[string]float64, n)
	for _, node := range g.Nodes() {
		cb[node.Key()] = 0
	}
	if n < 3 {
		return cb, nil
	}

	for _, src := range g.Nodes() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, order, sigma, preds := shortestPaths(g, src.Key())

		// Brandes back-propagation of pair dependencies.
		delta := make(map[string]float64, len(order))
		for i := len(order) - 1; i >= 0; i-- {
			w := order[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != src.Key() {
				cb[w] += delta[w]
			}
		}
	}

	// Undirected: every pair was counted from both endpoints.
	scale := 1 / (float64(n-1) * float64(n-2))
	for key := range cb {
		cb[key] *= scale
	}
	return cb, nil
}

type pqItem struct {
	key  string
	dist float64
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)         { *q = append(*q, x.(pqItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// shortestPaths runs Dijkstra from src over 1/weight edge lengths,
// returning final distances, nodes in finalization order, shortest-path
// counts, and predecessor lists.
func shortestPaths(g *graph.Graph, src string) (
	dist map[string]float64, order []string, sigma map[string]float64, preds map[string][]string,
) {
	dist = make(map[string]float64)
	sigma = map[string]float64{src: 1}
	preds = make(map[string][]string)
	seen := map[string]float64{src: 0}

	q := &priorityQueue{{key: src, dist: 0}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(pqItem)
		if _, done := dist[cur.key]; done {
			continue
		}
		dist[cur.key] = cur.dist
		order = append(order, cur.key)

		for _, nb := range g.Neighbors(cur.key) {
			if _, done := dist[nb]; done {
				continue
			}
			d := cur.dist + 1/float64(g.EdgeWeight(cur.key, nb))
			prev, visited := seen[nb]
			switch {
			case !visited || d < prev:
				seen[nb] = d
				sigma[nb] = sigma[cur.key]
				preds[nb] = []string{cur.key}
				heap.Push(q, pqItem{key: nb, dist: d})
			case d == prev:
				sigma[nb] += sigma[cur.key]
				preds[nb] = append(preds[nb], cur.key)
			}
		}
	}
	return dist, order, sigma, preds
}
