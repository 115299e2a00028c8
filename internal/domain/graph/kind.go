package graph

import (
	"fmt"

	"github.com/Bestroi150/georgievi-network/internal/domain"
)

// Kind identifies a graph projection.
type Kind string

const (
	KindSocial     Kind = "social"
	KindGeographic Kind = "geographic"
	KindThematic   Kind = "thematic"
	KindEconomic   Kind = "economic"
)

// Kinds lists every projection kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindSocial, KindGeographic, KindThematic, KindEconomic}
}

// ParseKind validates a projection kind received from the outside.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSocial, KindGeographic, KindThematic, KindEconomic:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown graph kind %q", domain.ErrValidation, s)
}

func (k Kind) String() string { return string(k) }

// NodeKind identifies what a node stands for.
type NodeKind string

const (
	NodePerson    NodeKind = "person"
	NodePlace     NodeKind = "place"
	NodeTopic     NodeKind = "topic"
	NodeCommodity NodeKind = "commodity"
)

func (k NodeKind) String() string { return string(k) }
