package letter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain"
)

// dateLayouts are the accepted archival date spellings, tried in order.
var dateLayouts = []string{"02.01.2006", "02/01/2006", "2006-01-02", "02-01-2006"}

// Place is a geographic mention inside a letter, optionally georeferenced.
type Place struct {
	name      string
	lat, lon  float64
	ref       string
	hasCoords bool
}

// NewPlace creates a place mention without coordinates.
func NewPlace(name string) Place {
	return Place{name: strings.TrimSpace(name)}
}

// NewGeoreferencedPlace creates a place mention with coordinates and an
// optional authority reference (for example a Pleiades URI).
func NewGeoreferencedPlace(name string, lat, lon float64, ref string) Place {
	return Place{name: strings.TrimSpace(name), lat: lat, lon: lon, ref: ref, hasCoords: true}
}

// Name returns the place name.
func (p Place) Name() string { return p.name }

// Coords returns the latitude and longitude, valid only when ok is true.
func (p Place) Coords() (lat, lon float64, ok bool) { return p.lat, p.lon, p.hasCoords }

// Ref returns the external authority reference, if any.
func (p Place) Ref() string { return p.ref }

// Letter is a single correspondence record (immutable value object).
type Letter struct {
	id               string
	sender           string
	addressee        string
	date             time.Time // zero when undated
	origin           string
	destination      string
	mentionedPlaces  []Place
	mentionedPersons []string
	topics           []string
	commodities      []string
	content          string
}

// Attributes carries the optional fields of a letter record.
type Attributes struct {
	Date             time.Time
	Origin           string
	Destination      string
	MentionedPlaces  []Place
	MentionedPersons []string
	Topics           []string
	Commodities      []string
	Content          string
}

// New validates and creates a Letter.
// ID, sender and addressee are required; everything else is optional.
// A zero Date means the record is undated.
func New(id, sender, addressee string, attrs Attributes) (Letter, error) {
	id = strings.TrimSpace(id)
	sender = strings.TrimSpace(sender)
	addressee = strings.TrimSpace(addressee)
	if id == "" {
		return Letter{}, domain.NewFieldError("", "id", "is required")
	}
	if sender == "" {
		return Letter{}, domain.NewFieldError(id, "sender", "is required")
	}
	if addressee == "" {
		return Letter{}, domain.NewFieldError(id, "addressee", "is required")
	}

	return Letter{
		id:               id,
		sender:           sender,
		addressee:        addressee,
		date:             attrs.Date,
		origin:           strings.TrimSpace(attrs.Origin),
		destination:      strings.TrimSpace(attrs.Destination),
		mentionedPlaces:  clonePlaces(attrs.MentionedPlaces),
		mentionedPersons: cleanStrings(attrs.MentionedPersons),
		topics:           cleanStrings(attrs.Topics),
		commodities:      cleanStrings(attrs.Commodities),
		content:          attrs.Content,
	}, nil
}

// Reconstruct creates a Letter without validation (storage hydration).
func Reconstruct(id, sender, addressee string, attrs Attributes) Letter {
	return Letter{
		id:               id,
		sender:           sender,
		addressee:        addressee,
		date:             attrs.Date,
		origin:           attrs.Origin,
		destination:      attrs.Destination,
		mentionedPlaces:  attrs.MentionedPlaces,
		mentionedPersons: attrs.MentionedPersons,
		topics:           attrs.Topics,
		commodities:      attrs.Commodities,
		content:          attrs.Content,
	}
}

// ParseDate parses an archival date string, trying each accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", domain.ErrMalformedDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedDate, s)
}

// ID returns the letter identifier (archive shelfmark).
func (l *Letter) ID() string { return l.id }

// Sender returns the sender name.
func (l *Letter) Sender() string { return l.sender }

// Addressee returns the addressee name.
func (l *Letter) Addressee() string { return l.addressee }

// Date returns the letter date. Valid only when Dated reports true.
func (l *Letter) Date() time.Time { return l.date }

// Dated reports whether the record carries a usable date.
func (l *Letter) Dated() bool { return !l.date.IsZero() }

// Origin returns the sender place, if recorded.
func (l *Letter) Origin() string { return l.origin }

// Destination returns the addressee place, if recorded.
func (l *Letter) Destination() string { return l.destination }

// MentionedPlaces returns the places named in the letter body.
func (l *Letter) MentionedPlaces() []Place { return l.mentionedPlaces }

// MentionedPersons returns third parties named in the letter body.
func (l *Letter) MentionedPersons() []string { return l.mentionedPersons }

// Topics returns the thematic labels attached to the record.
func (l *Letter) Topics() []string { return l.topics }

// Commodities returns the tradable goods mentioned in the record.
func (l *Letter) Commodities() []string { return l.commodities }

// Content returns the transcribed letter text.
func (l *Letter) Content() string { return l.content }

// SelfAddressed reports whether sender and addressee are the same person.
func (l *Letter) SelfAddressed() bool { return l.sender == l.addressee }

// Places returns origin, destination and mentioned place names, deduplicated
// in first-seen order.
func (l *Letter) Places() []string {
	seen := make(map[string]bool, len(l.mentionedPlaces)+2)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	add(l.origin)
	add(l.destination)
	for _, p := range l.mentionedPlaces {
		add(p.name)
	}
	return out
}

// Mentions reports whether the letter involves the named participant,
// either as correspondent or as a mentioned person.
func (l *Letter) Mentions(person string) bool {
	if l.sender == person || l.addressee == person {
		return true
	}
	for _, p := range l.mentionedPersons {
		if p == person {
			return true
		}
	}
	return false
}

func clonePlaces(ps []Place) []Place {
	if ps == nil {
		return nil
	}
	c := make([]Place, len(ps))
	copy(c, ps)
	return c
}

// cleanStrings trims entries, drops empties and duplicates, keeps order.
func cleanStrings(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
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
	if len(out) == 0 {
		return nil
	}
	return out
}
