// Package extract derives topics and commodities from letter content.
package extract

import (
	"context"
	"sort"
	"strings"
)

// Lexicon matches configured term lists against letter content. It is
// the default extractor; no external service is involved.
type Lexicon struct {
	topics      map[string][]string
	commodities []string
}

// NewLexicon creates a lexicon extractor. topics maps a label to its
// trigger terms; commodities are their own trigger.
func NewLexicon(topics map[string][]string, commodities []string) *Lexicon {
	normalized := make(map[string][]string, len(topics))
	for label, terms := range topics {
		lower := make([]string, 0, len(terms))
		for _, t := range terms {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				lower = append(lower, t)
			}
		}
		normalized[label] = lower
	}
	return &Lexicon{topics: normalized, commodities: commodities}
}

// Extract returns every topic label and commodity whose trigger terms
// occur in the content, sorted for determinism.
func (x *Lexicon) Extract(_ context.Context, content string) (topics, commodities []string, err error) {
	haystack := strings.ToLower(content)

	for label, terms := range x.topics {
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				topics = append(topics, label)
				break
			}
		}
	}
	sort.Strings(topics)

	for _, c := range x.commodities {
		if strings.Contains(haystack, strings.ToLower(c)) {
			commodities = append(commodities, c)
		}
	}
	sort.Strings(commodities)

	return topics, commodities, nil
}
