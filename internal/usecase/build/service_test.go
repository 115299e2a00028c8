package build

import (
	"context"
	"testing"
	"time"

	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
)

func TestService_BuildAppliesCriteria(t *testing.T) {
	src := &mockSource{records: []letter.Letter{
		mustLetter(t, "L1", "Ivan", "Petar", "", letter.Attributes{}),
		mustLetter(t, "L2", "Dimitar", "Georgi", "", letter.Attributes{}),
	}}
	svc := New(src, GeoRoute)

	g, err := svc.Build(context.Background(), graph.KindSocial, query.Criteria{}.WithParticipants("Ivan"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if _, ok := g.Node("Dimitar"); ok {
		t.Error("filtered-out correspondent present")
	}
}

func TestService_BuildAt(t *testing.T) {
	src := &mockSource{records: []letter.Letter{
		mustLetter(t, "L1", "A", "B", "01.01.1910", letter.Attributes{}),
		mustLetter(t, "L2", "B", "C", "01.01.1912", letter.Attributes{}),
	}}
	svc := New(src, GeoRoute)

	boundary := time.Date(1911, time.January, 1, 0, 0, 0, 0, time.UTC)
	g, err := svc.BuildAt(context.Background(), graph.KindSocial, query.Criteria{}, boundary)
	if err != nil {
		t.Fatalf("BuildAt: %v", err)
	}
	if _, ok := g.Node("C"); ok {
		t.Error("record beyond the boundary included")
	}
	if _, ok := g.Node("A"); !ok {
		t.Error("record before the boundary missing")
	}
}

func TestService_BuildAt_KeepsTighterBound(t *testing.T) {
	src := &mockSource{records: []letter.Letter{
		mustLetter(t, "L1", "A", "B", "01.01.1910", letter.Attributes{}),
		mustLetter(t, "L2", "B", "C", "01.01.1912", letter.Attributes{}),
	}}
	svc := New(src, GeoRoute)

	tight, err := query.Criteria{}.WithDateRange(time.Time{}, time.Date(1911, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WithDateRange: %v", err)
	}
	loose := time.Date(1920, time.January, 1, 0, 0, 0, 0, time.UTC)

	g, err := svc.BuildAt(context.Background(), graph.KindSocial, tight, loose)
	if err != nil {
		t.Fatalf("BuildAt: %v", err)
	}
	if _, ok := g.Node("C"); ok {
		t.Error("looser boundary overrode the criteria bound")
	}
}

func TestService_BuildAt_ExcludesUndated(t *testing.T) {
	src := &mockSource{records: []letter.Letter{
		mustLetter(t, "L1", "A", "B", "01.01.1910", letter.Attributes{}),
		mustLetter(t, "L2", "B", "C", "", letter.Attributes{}),
	}}
	svc := New(src, GeoRoute)

	boundary := time.Date(1911, time.January, 1, 0, 0, 0, 0, time.UTC)
	g, err := svc.BuildAt(context.Background(), graph.KindSocial, query.Criteria{}, boundary)
	if err != nil {
		t.Fatalf("BuildAt: %v", err)
	}
	if _, ok := g.Node("C"); ok {
		t.Error("undated record included in a temporal slice")
	}
}
