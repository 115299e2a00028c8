package sequence

import (
	"context"
	"iter"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

// Builder constructs projections; the caching decorator satisfies this.
type Builder interface {
	Build(ctx context.Context, kind graph.Kind, criteria query.Criteria) (*graph.Graph, error)
}

// RecordSource provides filtered corpus access and the dated span.
type RecordSource interface {
	Filter(c query.Criteria) iter.Seq[*letter.Letter]
	DateSpan() (first, last time.Time, ok bool)
}
