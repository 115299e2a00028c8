// Package build derives graph projections from letter records. Builders
// are pure: the same records always produce the same graph, and an empty
// input produces an empty graph.
package build

import (
	"fmt"
	"iter"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
)

// GeoPolicy selects how the geographic projection derives edges.
type GeoPolicy string

const (
	// GeoRoute links origin to destination, one per letter.
	GeoRoute GeoPolicy = "route"
	// GeoComention additionally links every pair of places named in the
	// same letter, with the origin-destination route weighted double.
	GeoComention GeoPolicy = "comention"
)

// ParseGeoPolicy validates a geographic edge policy from configuration.
func ParseGeoPolicy(s string) (GeoPolicy, error) {
	switch GeoPolicy(s) {
	case GeoRoute, GeoComention:
		return GeoPolicy(s), nil
	case "":
		return GeoRoute, nil
	}
	return "", fmt.Errorf("%w: unknown geographic edge policy %q", domain.ErrValidation, s)
}

// Social builds the correspondence network: person nodes weighted by
// letters sent plus received, edges weighted by letters exchanged.
// Self-addressed letters count for the node but produce no edge.
func Social(records iter.Seq[*letter.Letter]) (*graph.Graph, error) {
	b := graph.NewBuilder(graph.KindSocial)
	for l := range records {
		if err := b.AddNode(l.Sender(), graph.NodePerson, 1); err != nil {
			return nil, err
		}
		if l.SelfAddressed() {
			continue
		}
		if err := b.AddNode(l.Addressee(), graph.NodePerson, 1); err != nil {
			return nil, err
		}
		if err := b.AddEdge(l.Sender(), l.Addressee(), 1); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Geographic builds the place network. Every place a letter touches
// becomes a node weighted by mention count; edges follow the policy.
func Geographic(records iter.Seq[*letter.Letter], policy GeoPolicy) (*graph.Graph, error) {
	b := graph.NewBuilder(graph.KindGeographic)
	for l := range records {
		places := l.Places()
		for _, p := range places {
			if err := b.AddNode(p, graph.NodePlace, 1); err != nil {
				return nil, err
			}
		}
		for _, mp := range l.MentionedPlaces() {
			if lat, lon, ok := mp.Coords(); ok {
				if err := b.SetNodeCoords(mp.Name(), lat, lon); err != nil {
					return nil, err
				}
			}
		}

		origin, dest := l.Origin(), l.Destination()
		hasRoute := origin != "" && dest != "" && origin != dest

		switch policy {
		case GeoRoute:
			if hasRoute {
				if err := b.AddEdge(origin, dest, 1); err != nil {
					return nil, err
				}
			}
		case GeoComention:
			for i := 0; i < len(places); i++ {
				for j := i + 1; j < len(places); j++ {
					if err := b.AddEdge(places[i], places[j], 1); err != nil {
						return nil, err
					}
				}
			}
			if hasRoute {
				// On top of the comention pair, so the route pair carries double weight.
				if err := b.AddEdge(origin, dest, 1); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: unknown geographic edge policy %q", domain.ErrValidation, policy)
		}
	}
	return b.Build(), nil
}

// Thematic builds the topic co-occurrence network. Topics appearing in
// the same letter are linked; a letter's single topic still becomes a
// node with no edges.
func Thematic(records iter.Seq[*letter.Letter]) (*graph.Graph, error) {
	b := graph.NewBuilder(graph.KindThematic)
	for l := range records {
		topics := l.Topics()
		for _, topic := range topics {
			if err := b.AddNode(topic, graph.NodeTopic, 1); err != nil {
				return nil, err
			}
		}
		for i := 0; i < len(topics); i++ {
			for j := i + 1; j < len(topics); j++ {
				if err := b.AddEdge(topics[i], topics[j], 1); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.Build(), nil
}

// Economic builds the bipartite commodity-place network: a commodity is
// linked to every place the mentioning letter touches. Edges between two
// commodities or two places violate the bipartite invariant and fail.
func Economic(records iter.Seq[*letter.Letter]) (*graph.Graph, error) {
	b := graph.NewBuilder(graph.KindEconomic)
	for l := range records {
		commodities := l.Commodities()
		if len(commodities) == 0 {
			continue
		}
		places := l.Places()
		for _, c := range commodities {
			if err := b.AddNode(c, graph.NodeCommodity, 1); err != nil {
				return nil, err
			}
		}
		for _, p := range places {
			if err := b.AddNode(p, graph.NodePlace, 1); err != nil {
				return nil, err
			}
		}
		for _, c := range commodities {
			for _, p := range places {
				if err := b.AddEdge(c, p, 1); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.Build(), nil
}

// ByKind dispatches to the builder for the given projection kind.
func ByKind(kind graph.Kind, records iter.Seq[*letter.Letter], policy GeoPolicy) (*graph.Graph, error) {
	switch kind {
	case graph.KindSocial:
		return Social(records)
	case graph.KindGeographic:
		return Geographic(records, policy)
	case graph.KindThematic:
		return Thematic(records)
	case graph.KindEconomic:
		return Economic(records)
	}
	return nil, fmt.Errorf("%w: unknown graph kind %q", domain.ErrValidation, kind)
}

// UpTo restricts a record sequence to dated letters written on or before
// the boundary. Growing the boundary can only grow the projection.
func UpTo(records iter.Seq[*letter.Letter], boundary time.Time) iter.Seq[*letter.Letter] {
	return func(yield func(*letter.Letter) bool) {
		for l := range records {
			if !l.Dated() || l.Date().After(boundary) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}
