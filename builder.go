package georgievi

import (
	"context"
	"fmt"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

const (
	kindSocial     = "social"
	kindGeographic = "geographic"
	kindThematic   = "thematic"
	kindEconomic   = "economic"
)

// GraphBuilder is a fluent builder for projection queries.
type GraphBuilder struct {
	engine *Engine
	kind   string

	from, to     time.Time
	participants []string
	places       []string
	text         string
}

// Between restricts the projection to records dated within [from, to].
// Zero bounds leave that side open.
func (b *GraphBuilder) Between(from, to time.Time) *GraphBuilder {
	b.from = from
	b.to = to
	return b
}

// Participants restricts to records where any named person is sender,
// addressee or mentioned.
func (b *GraphBuilder) Participants(names ...string) *GraphBuilder {
	b.participants = append(b.participants, names...)
	return b
}

// Places restricts to records touching any named place.
func (b *GraphBuilder) Places(names ...string) *GraphBuilder {
	b.places = append(b.places, names...)
	return b
}

// Containing restricts to records whose content contains the text
// (case-insensitive).
func (b *GraphBuilder) Containing(text string) *GraphBuilder {
	b.text = text
	return b
}

// Do builds the projection over the matching records.
func (b *GraphBuilder) Do(ctx context.Context) (*Graph, error) {
	kind, criteria, err := b.resolve()
	if err != nil {
		return nil, err
	}

	g, err := b.engine.builder.Build(ctx, kind, criteria)
	if err != nil {
		return nil, fmt.Errorf("georgievi: %w", err)
	}
	return &Graph{inner: g, seed: b.engine.seed}, nil
}

// At builds the projection restricted to records dated on or before the
// boundary.
func (b *GraphBuilder) At(ctx context.Context, boundary time.Time) (*Graph, error) {
	kind, criteria, err := b.resolve()
	if err != nil {
		return nil, err
	}

	g, err := b.engine.builder.Build(ctx, kind, criteria.ClampBefore(boundary))
	if err != nil {
		return nil, fmt.Errorf("georgievi: %w", err)
	}
	return &Graph{inner: g, seed: b.engine.seed}, nil
}

// TimelineItem is the state of the projection at one boundary.
type TimelineItem struct {
	Boundary time.Time
	Graph    *Graph
	Summary  Summary
	Letters  int
}

// Timeline builds a cumulative snapshot per boundary, ascending. With no
// boundaries given, one snapshot per month across the dated span of the
// corpus.
func (b *GraphBuilder) Timeline(ctx context.Context, boundaries ...time.Time) ([]TimelineItem, error) {
	kind, criteria, err := b.resolve()
	if err != nil {
		return nil, err
	}

	if len(boundaries) == 0 {
		boundaries = b.engine.sequencer.MonthlyBoundaries()
	}

	series, err := b.engine.sequencer.Series(ctx, kind, criteria, boundaries)
	if err != nil {
		return nil, fmt.Errorf("georgievi: timeline: %w", err)
	}

	items := make([]TimelineItem, len(series))
	for i, snap := range series {
		items[i] = TimelineItem{
			Boundary: snap.Boundary,
			Graph:    &Graph{inner: snap.Graph, seed: b.engine.seed},
			Summary: Summary{
				Nodes:       snap.Summary.Nodes,
				Edges:       snap.Summary.Edges,
				TotalWeight: snap.Summary.TotalWeight,
				Density:     snap.Summary.Density,
				Connected:   snap.Summary.Connected,
				Components:  snap.Summary.Components,
			},
			Letters: snap.Letters,
		}
	}
	return items, nil
}

func (b *GraphBuilder) resolve() (graph.Kind, query.Criteria, error) {
	kind, err := graph.ParseKind(b.kind)
	if err != nil {
		return "", query.Criteria{}, fmt.Errorf("georgievi: %w", err)
	}

	criteria := (query.Criteria{}).
		WithParticipants(b.participants...).
		WithPlaces(b.places...).
		WithText(b.text)

	if !b.from.IsZero() || !b.to.IsZero() {
		criteria, err = criteria.WithDateRange(b.from, b.to)
		if err != nil {
			return "", query.Criteria{}, fmt.Errorf("georgievi: %w", err)
		}
	}
	return kind, criteria, nil
}
