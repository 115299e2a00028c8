// Package query holds the filter criteria applied to the record store
// before a projection is built. Criteria are conjunctive: every set
// criterion must hold for a record to pass.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
)

// Criteria is an immutable conjunction of record filters. The zero value
// matches every record.
type Criteria struct {
	from, to     time.Time
	participants []string
	places       []string
	text         string
}

// WithDateRange returns a copy restricted to letters dated in [from, to].
// Either bound may be zero to leave that side open. Undated records never
// match a date-bounded criteria.
func (c Criteria) WithDateRange(from, to time.Time) (Criteria, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return Criteria{}, fmt.Errorf("%w: date range end %s before start %s",
			domain.ErrValidation, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	c.from, c.to = from, to
	return c, nil
}

// ClampBefore returns a copy whose upper date bound is tightened to the
// boundary. An existing earlier bound is kept.
func (c Criteria) ClampBefore(boundary time.Time) Criteria {
	if boundary.IsZero() {
		return c
	}
	if c.to.IsZero() || boundary.Before(c.to) {
		c.to = boundary
	}
	return c
}

// WithParticipants returns a copy restricted to letters involving at
// least one of the named persons, as correspondent or mention.
func (c Criteria) WithParticipants(names ...string) Criteria {
	c.participants = cleanSet(names)
	return c
}

// WithPlaces returns a copy restricted to letters touching at least one
// of the named places.
func (c Criteria) WithPlaces(names ...string) Criteria {
	c.places = cleanSet(names)
	return c
}

// WithText returns a copy restricted to letters whose content, sender
// or addressee contains the given text, case-insensitively.
func (c Criteria) WithText(text string) Criteria {
	c.text = strings.ToLower(strings.TrimSpace(text))
	return c
}

// IsEmpty reports whether the criteria match every record.
func (c Criteria) IsEmpty() bool {
	return c.from.IsZero() && c.to.IsZero() &&
		len(c.participants) == 0 && len(c.places) == 0 && c.text == ""
}

// DateBounded reports whether a date range is set on either side.
func (c Criteria) DateBounded() bool { return !c.from.IsZero() || !c.to.IsZero() }

// Matches reports whether the letter satisfies every set criterion.
func (c Criteria) Matches(l *letter.Letter) bool {
	if c.DateBounded() {
		if !l.Dated() {
			return false
		}
		if !c.from.IsZero() && l.Date().Before(c.from) {
			return false
		}
		if !c.to.IsZero() && l.Date().After(c.to) {
			return false
		}
	}
	if len(c.participants) > 0 && !anyMatch(c.participants, l.Mentions) {
		return false
	}
	if len(c.places) > 0 {
		places := l.Places()
		hit := anyMatch(c.places, func(name string) bool {
			for _, p := range places {
				if p == name {
					return true
				}
			}
			return false
		})
		if !hit {
			return false
		}
	}
	if c.text != "" && !c.textMatches(l) {
		return false
	}
	return true
}

func (c Criteria) textMatches(l *letter.Letter) bool {
	for _, s := range []string{l.Content(), l.Sender(), l.Addressee()} {
		if strings.Contains(strings.ToLower(s), c.text) {
			return true
		}
	}
	return false
}

// CacheKey renders the criteria as a stable string. Equal criteria always
// produce equal keys, so the key can address cached projections.
func (c Criteria) CacheKey() string {
	var sb strings.Builder
	sb.WriteString("from=")
	if !c.from.IsZero() {
		sb.WriteString(c.from.Format(time.DateOnly))
	}
	sb.WriteString("|to=")
	if !c.to.IsZero() {
		sb.WriteString(c.to.Format(time.DateOnly))
	}
	sb.WriteString("|who=")
	sb.WriteString(strings.Join(c.participants, ","))
	sb.WriteString("|where=")
	sb.WriteString(strings.Join(c.places, ","))
	sb.WriteString("|text=")
	sb.WriteString(c.text)
	return sb.String()
}

func anyMatch(names []string, pred func(string) bool) bool {
	for _, n := range names {
		if pred(n) {
			return true
		}
	}
	return false
}

// cleanSet trims, deduplicates and sorts so criteria built from the same
// set in any order compare and cache identically.
func cleanSet(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
