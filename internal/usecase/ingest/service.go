// Package ingest validates raw correspondence records and loads them
// into the record store, replacing the previous corpus.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
)

// DatePolicy selects how malformed or missing dates are handled.
type DatePolicy string

const (
	// DateReject fails the whole batch on a malformed date.
	DateReject DatePolicy = "reject"
	// DatePartition keeps the record, undated, out of temporal views.
	DatePartition DatePolicy = "partition"
)

// ParseDatePolicy validates a date policy from configuration.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch DatePolicy(s) {
	case DateReject, DatePartition:
		return DatePolicy(s), nil
	case "":
		return DateReject, nil
	}
	return "", fmt.Errorf("%w: unknown date policy %q", domain.ErrValidation, s)
}

// RawPlace is a place mention as it arrives from the archive export.
type RawPlace struct {
	Name string
	Lat  *float64
	Lon  *float64
	Ref  string
}

// RawLetter is a correspondence record as it arrives from the archive
// export, before validation.
type RawLetter struct {
	ID               string
	Sender           string
	Addressee        string
	Date             string
	Origin           string
	Destination      string
	MentionedPlaces  []RawPlace
	MentionedPersons []string
	MainTopics       []string
	Keywords         []string
	Content          string
}

// Report summarizes an accepted batch.
type Report struct {
	Loaded      int
	Dated       int
	Partitioned int
}

// Service ingests raw batches into the record store.
type Service struct {
	store     Loader
	extractor Extractor
	cache     CachePurger
	policy    DatePolicy
	logger    *zap.Logger
}

// New creates an ingest service. extractor and cache may be nil.
func New(store Loader, extractor Extractor, cache CachePurger, policy DatePolicy, logger *zap.Logger) *Service {
	return &Service{store: store, extractor: extractor, cache: cache, policy: policy, logger: logger}
}

// Ingest validates the batch, derives topics where needed, and replaces
// the store contents. Any validation failure rejects the whole batch and
// leaves the previous corpus intact.
func (s *Service) Ingest(ctx context.Context, raws []RawLetter) (Report, error) {
	ls := make([]letter.Letter, 0, len(raws))
	var report Report

	for i := range raws {
		l, dated, err := s.convert(ctx, &raws[i])
		if err != nil {
			return Report{}, err
		}
		if dated {
			report.Dated++
		} else if raws[i].Date != "" {
			report.Partitioned++
		}
		ls = append(ls, l)
	}

	if err := s.store.Load(ls); err != nil {
		return Report{}, fmt.Errorf("load batch: %w", err)
	}
	report.Loaded = len(ls)

	s.purgeCache(ctx)
	return report, nil
}

func (s *Service) convert(ctx context.Context, raw *RawLetter) (letter.Letter, bool, error) {
	attrs := letter.Attributes{
		Origin:           raw.Origin,
		Destination:      raw.Destination,
		MentionedPersons: raw.MentionedPersons,
		Content:          raw.Content,
	}

	dated := false
	if raw.Date != "" {
		d, err := letter.ParseDate(raw.Date)
		switch {
		case err == nil:
			attrs.Date = d
			dated = true
		case s.policy == DatePartition:
			// Kept, but invisible to temporal views.
		default:
			return letter.Letter{}, false, fmt.Errorf("record %q: %w", raw.ID, err)
		}
	}

	for _, p := range raw.MentionedPlaces {
		if p.Lat != nil && p.Lon != nil {
			attrs.MentionedPlaces = append(attrs.MentionedPlaces,
				letter.NewGeoreferencedPlace(p.Name, *p.Lat, *p.Lon, p.Ref))
		} else {
			attrs.MentionedPlaces = append(attrs.MentionedPlaces, letter.NewPlace(p.Name))
		}
	}

	attrs.Topics = append(append([]string{}, raw.MainTopics...), raw.Keywords...)
	attrs.Commodities = raw.Keywords

	if len(attrs.Topics) == 0 && raw.Content != "" && s.extractor != nil {
		topics, commodities, err := s.extractor.Extract(ctx, raw.Content)
		if err != nil {
			return letter.Letter{}, false, fmt.Errorf("record %q: extract topics: %w", raw.ID, err)
		}
		attrs.Topics = topics
		attrs.Commodities = commodities
	}

	l, err := letter.New(raw.ID, raw.Sender, raw.Addressee, attrs)
	if err != nil {
		return letter.Letter{}, false, err
	}
	return l, dated, nil
}

// purgeCache drops stale projections. Failures are logged, not returned:
// generation-keyed cache lookups already ignore stale entries.
func (s *Service) purgeCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		s.logger.Warn("Failed to purge graph cache after reload", zap.Error(err))
	}
}
