// Package letters is the in-memory record store. A loaded batch is
// immutable; refreshing the corpus replaces the whole collection.
package letters

import (
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

// collection is one immutable loaded batch. Readers iterate a collection
// pointer captured at call time, so a concurrent reload never tears an
// iteration in progress.
type collection struct {
	byID    map[string]*letter.Letter
	all     []*letter.Letter // dated first (ascending), then undated by id
	dated   []*letter.Letter
	undated []*letter.Letter
}

// Store holds the currently loaded letter collection.
type Store struct {
	mu         sync.RWMutex
	cur        *collection
	generation uint64
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{cur: &collection{byID: map[string]*letter.Letter{}}}
}

// Load replaces the collection with a new batch. Duplicate identifiers
// fail the whole batch and leave the previous collection in place.
func (s *Store) Load(ls []letter.Letter) error {
	c := &collection{byID: make(map[string]*letter.Letter, len(ls))}
	for i := range ls {
		l := &ls[i]
		if _, ok := c.byID[l.ID()]; ok {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateRecord, l.ID())
		}
		c.byID[l.ID()] = l
		if l.Dated() {
			c.dated = append(c.dated, l)
		} else {
			c.undated = append(c.undated, l)
		}
	}
	sort.SliceStable(c.dated, func(i, j int) bool {
		if !c.dated[i].Date().Equal(c.dated[j].Date()) {
			return c.dated[i].Date().Before(c.dated[j].Date())
		}
		return c.dated[i].ID() < c.dated[j].ID()
	})
	sort.SliceStable(c.undated, func(i, j int) bool { return c.undated[i].ID() < c.undated[j].ID() })
	c.all = append(append(make([]*letter.Letter, 0, len(ls)), c.dated...), c.undated...)

	s.mu.Lock()
	s.cur = c
	s.generation++
	s.mu.Unlock()
	return nil
}

func (s *Store) snapshot() *collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Generation returns a counter incremented on every Load. Cached
// projections derived from an older generation are stale.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.snapshot().all) }

// UndatedCount returns how many loaded records carry no usable date.
func (s *Store) UndatedCount() int { return len(s.snapshot().undated) }

// Get returns a record by identifier.
func (s *Store) Get(id string) (*letter.Letter, error) {
	l, ok := s.snapshot().byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: letter %q", domain.ErrNotFound, id)
	}
	return l, nil
}

// All returns a lazy sequence over every record, dated records first in
// chronological order.
func (s *Store) All() iter.Seq[*letter.Letter] {
	return seqOver(s.snapshot().all)
}

// Dated returns a lazy sequence over dated records in chronological order.
func (s *Store) Dated() iter.Seq[*letter.Letter] {
	return seqOver(s.snapshot().dated)
}

// Filter returns a lazy sequence over records matching the criteria.
// An empty result is a valid outcome, not an error.
func (s *Store) Filter(c query.Criteria) iter.Seq[*letter.Letter] {
	src := s.snapshot().all
	return func(yield func(*letter.Letter) bool) {
		for _, l := range src {
			if !c.Matches(l) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

// ByDateRange returns records dated within [from, to]; either bound may
// be zero. Undated records are never included.
func (s *Store) ByDateRange(from, to time.Time) (iter.Seq[*letter.Letter], error) {
	c, err := query.Criteria{}.WithDateRange(from, to)
	if err != nil {
		return nil, err
	}
	if !c.DateBounded() {
		return s.Dated(), nil
	}
	return s.Filter(c), nil
}

// ByParticipant returns records involving the named person.
func (s *Store) ByParticipant(name string) iter.Seq[*letter.Letter] {
	return s.Filter(query.Criteria{}.WithParticipants(name))
}

// ByPlace returns records touching the named place.
func (s *Store) ByPlace(name string) iter.Seq[*letter.Letter] {
	return s.Filter(query.Criteria{}.WithPlaces(name))
}

// ByText returns records whose content, sender or addressee contains
// the text.
func (s *Store) ByText(text string) iter.Seq[*letter.Letter] {
	return s.Filter(query.Criteria{}.WithText(text))
}

// DateSpan returns the earliest and latest letter dates. ok is false when
// no dated records are loaded.
func (s *Store) DateSpan() (first, last time.Time, ok bool) {
	dated := s.snapshot().dated
	if len(dated) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return dated[0].Date(), dated[len(dated)-1].Date(), true
}

func seqOver(src []*letter.Letter) iter.Seq[*letter.Letter] {
	return func(yield func(*letter.Letter) bool) {
		for _, l := range src {
			if !yield(l) {
				return
			}
		}
	}
}
