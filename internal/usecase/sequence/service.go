// Package sequence produces chronological series of cumulative
// projection snapshots, one per date boundary.
package sequence

import (
	"context"
	"iter"
	"sort"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
	"github.com/Bestroi150/georgievi-network/internal/usecase/analyze"
)

// Snapshot is the state of a projection at one boundary: every matching
// record written on or before the boundary is included.
type Snapshot struct {
	Boundary time.Time
	Graph    *graph.Graph
	Summary  analyze.Summary
	Letters  int
}

// Service builds snapshot series over the record store.
type Service struct {
	builder Builder
	records RecordSource
}

// New creates a sequencing service.
func New(builder Builder, records RecordSource) *Service {
	return &Service{builder: builder, records: records}
}

// Snapshots returns a lazy sequence of cumulative snapshots, one per
// boundary in ascending order. The sequence is restartable: ranging over
// it again replays the series from the first boundary. Construction
// errors end the sequence with a non-nil error.
func (s *Service) Snapshots(
	ctx context.Context, kind graph.Kind, criteria query.Criteria, boundaries []time.Time,
) iter.Seq2[Snapshot, error] {
	sorted := sortedBoundaries(boundaries)
	return func(yield func(Snapshot, error) bool) {
		for _, boundary := range sorted {
			snap, err := s.at(ctx, kind, criteria, boundary)
			if err != nil {
				yield(Snapshot{Boundary: boundary}, err)
				return
			}
			if !yield(snap, nil) {
				return
			}
		}
	}
}

// Series materializes the whole snapshot sequence.
func (s *Service) Series(
	ctx context.Context, kind graph.Kind, criteria query.Criteria, boundaries []time.Time,
) ([]Snapshot, error) {
	var out []Snapshot
	for snap, err := range s.Snapshots(ctx, kind, criteria, boundaries) {
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// MonthlyBoundaries returns the last day of every month across the dated
// span of the corpus, nil when no dated records are loaded.
func (s *Service) MonthlyBoundaries() []time.Time {
	first, last, ok := s.records.DateSpan()
	if !ok {
		return nil
	}

	var out []time.Time
	cur := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		out = append(out, cur.AddDate(0, 1, -1))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func (s *Service) at(
	ctx context.Context, kind graph.Kind, criteria query.Criteria, boundary time.Time,
) (Snapshot, error) {
	bounded := criteria.ClampBefore(boundary)
	g, err := s.builder.Build(ctx, kind, bounded)
	if err != nil {
		return Snapshot{}, err
	}

	letters := 0
	for range s.records.Filter(bounded) {
		letters++
	}

	return Snapshot{
		Boundary: boundary,
		Graph:    g,
		Summary:  analyze.Summarize(g),
		Letters:  letters,
	}, nil
}

func sortedBoundaries(boundaries []time.Time) []time.Time {
	out := make([]time.Time, 0, len(boundaries))
	seen := make(map[time.Time]bool, len(boundaries))
	for _, b := range boundaries {
		if b.IsZero() || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
