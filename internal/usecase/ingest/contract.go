package ingest

import (
	"context"

	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
)

// Loader replaces the record store contents with a validated batch.
type Loader interface {
	Load(ls []letter.Letter) error
}

// Extractor derives topics and commodities from letter content. Used for
// records that arrive without curated labels.
type Extractor interface {
	Extract(ctx context.Context, content string) (topics, commodities []string, err error)
}

// CachePurger drops cached projections after a reload.
type CachePurger interface {
	Purge(ctx context.Context) error
}
