package build

import (
	"iter"
	"testing"

	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

func mustLetter(t *testing.T, id, sender, addressee, date string, attrs letter.Attributes) letter.Letter {
	t.Helper()
	if date != "" {
		d, err := letter.ParseDate(date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", date, err)
		}
		attrs.Date = d
	}
	l, err := letter.New(id, sender, addressee, attrs)
	if err != nil {
		t.Fatalf("letter.New(%q): %v", id, err)
	}
	return l
}

func seq(ls ...letter.Letter) iter.Seq[*letter.Letter] {
	return func(yield func(*letter.Letter) bool) {
		for i := range ls {
			if !yield(&ls[i]) {
				return
			}
		}
	}
}

// mockSource implements RecordSource over a fixed slice.
type mockSource struct {
	records []letter.Letter
}

func (m *mockSource) Filter(c query.Criteria) iter.Seq[*letter.Letter] {
	return func(yield func(*letter.Letter) bool) {
		for i := range m.records {
			if !c.Matches(&m.records[i]) {
				continue
			}
			if !yield(&m.records[i]) {
				return
			}
		}
	}
}
