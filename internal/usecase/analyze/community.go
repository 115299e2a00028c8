package analyze

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
)

// maxPropagationRounds bounds label propagation on graphs that oscillate.
const maxPropagationRounds = 100

// Communities assigns every node a community number via weighted label
// propagation. The seed fixes the node visiting order, so the same graph
// and seed always produce the same assignment. Numbers are renumbered by
// each community's smallest member, starting at 0.
func Communities(g *graph.Graph, seed int64) (map[string]int, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: community detection on an empty graph", domain.ErrEmptyGraph)
	}

	keys := make([]string, 0, n)
	labels := make(map[string]string, n)
	for _, node := range g.Nodes() {
		keys = append(keys, node.Key())
		labels[node.Key()] = node.Key()
	}

	rng := rand.New(rand.NewSource(seed))
	order := make([]string, len(keys))
	copy(order, keys)

	for round := 0; round < maxPropagationRounds; round++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		changed := false
		for _, key := range order {
			best, ok := dominantLabel(g, key, labels)
			if ok && best != labels[key] {
				labels[key] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return renumber(keys, labels), nil
}

// dominantLabel picks the neighbor label with the highest total edge
// weight, breaking ties toward the lexicographically smallest label.
func dominantLabel(g *graph.Graph, key string, labels map[string]string) (string, bool) {
	tally := make(map[string]int)
	for _, nb := range g.Neighbors(key) {
		tally[labels[nb]] += g.EdgeWeight(key, nb)
	}
	if len(tally) == 0 {
		return "", false
	}

	var best string
	bestWeight := -1
	candidates := make([]string, 0, len(tally))
	for label := range tally {
		candidates = append(candidates, label)
	}
	sort.Strings(candidates)
	for _, label := range candidates {
		if tally[label] > bestWeight {
			best, bestWeight = label, tally[label]
		}
	}
	return best, true
}

// renumber maps label strings to community numbers ordered by each
// community's smallest node key.
func renumber(sortedKeys []string, labels map[string]string) map[string]int {
	next := 0
	byLabel := make(map[string]int, len(labels))
	out := make(map[string]int, len(labels))
	for _, key := range sortedKeys {
		label := labels[key]
		id, ok := byLabel[label]
		if !ok {
			id = next
			byLabel[label] = id
			next++
		}
		out[key] = id
	}
	return out
}
