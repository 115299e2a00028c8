// Package analyze computes centrality and structure metrics over built
// projections. Every function is pure: the input graph is never mutated
// and equal graphs always produce equal scores.
package analyze

import (
	"fmt"
	"sort"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
)

// Degree returns weighted degree centrality per node: the sum of incident
// edge weights over n-1. Needs at least two nodes.
func Degree(g *graph.Graph) (map[string]float64, error) {
	n := g.NodeCount()
	if n <= 1 {
		return nil, fmt.Errorf("%w: degree centrality needs at least 2 nodes, graph has %d",
			domain.ErrEmptyGraph, n)
	}
	scores := make(map[string]float64, n)
	for _, node := range g.Nodes() {
		scores[node.Key()] = float64(g.WeightedDegree(node.Key())) / float64(n-1)
	}
	return scores, nil
}

// Closeness returns closeness centrality per node, computed within the
// node's own connected component: the count of other reachable nodes
// divided by the sum of shortest-path distances to them, where an edge
// of weight w has length 1/w. Isolated nodes score 0.
func Closeness(g *graph.Graph) (map[string]float64, error) {
	if g.NodeCount() == 0 {
		return nil, fmt.Errorf("%w: closeness centrality on an empty graph", domain.ErrEmptyGraph)
	}
	scores := make(map[string]float64, g.NodeCount())
	for _, node := range g.Nodes() {
		dist, _, _, _ := shortestPaths(g, node.Key())
		var sum float64
		reachable := 0
		for other, d := range dist {
			if other == node.Key() {
				continue
			}
			sum += d
			reachable++
		}
		if reachable == 0 || sum == 0 {
			scores[node.Key()] = 0
			continue
		}
		scores[node.Key()] = float64(reachable) / sum
	}
	return scores, nil
}

// Components returns the connected components, each sorted by node key,
// ordered by their smallest member.
func Components(g *graph.Graph) [][]string {
	visited := make(map[string]bool, g.NodeCount())
	var components [][]string
	for _, node := range g.Nodes() {
		if visited[node.Key()] {
			continue
		}
		var comp []string
		stack := []string{node.Key()}
		visited[node.Key()] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, nb := range g.Neighbors(cur) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Strings(comp)
		components = append(components, comp)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

// Summary is the structural overview of a projection.
type Summary struct {
	Nodes       int     `json:"nodes"`
	Edges       int     `json:"edges"`
	TotalWeight int     `json:"total_weight"`
	Density     float64 `json:"density"`
	Connected   bool    `json:"connected"`
	Components  int     `json:"components"`
}

// Summarize computes the structural overview.
func Summarize(g *graph.Graph) Summary {
	comps := Components(g)
	return Summary{
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
		TotalWeight: g.TotalEdgeWeight(),
		Density:     g.Density(),
		Connected:   len(comps) == 1,
		Components:  len(comps),
	}
}
