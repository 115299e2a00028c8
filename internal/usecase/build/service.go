package build

import (
	"context"
	"fmt"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

// Service builds projections from the record store.
type Service struct {
	records RecordSource
	policy  GeoPolicy
}

// New creates a build service with the given geographic edge policy.
func New(records RecordSource, policy GeoPolicy) *Service {
	return &Service{records: records, policy: policy}
}

// Build constructs the requested projection over records matching the
// criteria.
func (s *Service) Build(_ context.Context, kind graph.Kind, criteria query.Criteria) (*graph.Graph, error) {
	g, err := ByKind(kind, s.records.Filter(criteria), s.policy)
	if err != nil {
		return nil, fmt.Errorf("build %s graph: %w", kind, err)
	}
	return g, nil
}

// BuildAt constructs a temporal slice: the projection over matching
// records written on or before the boundary. A zero boundary leaves the
// records unbounded.
func (s *Service) BuildAt(
	ctx context.Context, kind graph.Kind, criteria query.Criteria, boundary time.Time,
) (*graph.Graph, error) {
	if boundary.IsZero() {
		return s.Build(ctx, kind, criteria)
	}
	g, err := ByKind(kind, UpTo(s.records.Filter(criteria), boundary), s.policy)
	if err != nil {
		return nil, fmt.Errorf("build %s graph at %s: %w", kind, boundary.Format(time.DateOnly), err)
	}
	return g, nil
}
