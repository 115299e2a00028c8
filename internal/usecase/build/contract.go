package build

import (
	"iter"

	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

// RecordSource provides filtered access to the loaded corpus.
type RecordSource interface {
	Filter(c query.Criteria) iter.Seq[*letter.Letter]
}
