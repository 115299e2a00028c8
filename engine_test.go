package georgievi

import (
	"context"
	"testing"
	"time"
)

func sampleCorpus() []Letter {
	return []Letter{
		{ID: "l1", Sender: "Anastas", Addressee: "Boris", Date: "05.01.1847",
			Origin: "Plovdiv", Destination: "Vienna", Keywords: []string{"wool"}},
		{ID: "l2", Sender: "Boris", Addressee: "Anastas", Date: "20.02.1847",
			Origin: "Vienna", Destination: "Plovdiv", Keywords: []string{"wool", "credit"}},
		{ID: "l3", Sender: "Boris", Addressee: "Cvetan", Date: "11.03.1847",
			Origin: "Vienna", Destination: "Istanbul", Keywords: []string{"credit"}},
	}
}

func newLoadedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)

	if _, err := e.Load(context.Background(), sampleCorpus()); err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return e
}

func TestNew_InvalidGeoPolicy(t *testing.T) {
	_, err := New(WithGeoEdgePolicy("teleport"))
	if err == nil {
		t.Fatal("expected error for unknown geo edge policy")
	}
}

func TestNew_InvalidDatePolicy(t *testing.T) {
	_, err := New(WithDatePolicy("guess"))
	if err == nil {
		t.Fatal("expected error for unknown date policy")
	}
}

func TestLoad_ReportsCounts(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	report, err := e.Load(context.Background(), []Letter{
		{ID: "l1", Sender: "A", Addressee: "B", Date: "05.01.1847"},
		{ID: "l2", Sender: "B", Addressee: "C"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.Loaded != 2 || report.Dated != 1 {
		t.Errorf("got loaded=%d dated=%d, want loaded=2 dated=1", report.Loaded, report.Dated)
	}
	if e.Len() != 2 || e.Undated() != 1 {
		t.Errorf("got len=%d undated=%d, want 2 and 1", e.Len(), e.Undated())
	}
}

func TestLoad_RejectsBadBatchKeepsOld(t *testing.T) {
	e := newLoadedEngine(t)

	_, err := e.Load(context.Background(), []Letter{
		{ID: "x1", Sender: "A", Addressee: ""},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if e.Len() != 3 {
		t.Errorf("previous corpus should survive a rejected batch, len=%d", e.Len())
	}
}

func TestSocial_WeightsAndMetrics(t *testing.T) {
	e := newLoadedEngine(t)

	g, err := e.Social().Do(context.Background())
	if err != nil {
		t.Fatalf("build social: %v", err)
	}

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].A != "Anastas" || edges[0].B != "Boris" || edges[0].Weight != 2 {
		t.Errorf("unexpected first edge: %+v", edges[0])
	}

	betweenness, err := g.Betweenness(context.Background())
	if err != nil {
		t.Fatalf("betweenness: %v", err)
	}
	if betweenness["Boris"] != 1.0 {
		t.Errorf("Boris betweenness: got %v, want 1.0", betweenness["Boris"])
	}

	summary := g.Summary()
	if !summary.Connected || summary.Nodes != 3 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestGeographic_FilterByParticipant(t *testing.T) {
	e := newLoadedEngine(t)

	g, err := e.Geographic().Participants("Cvetan").Do(context.Background())
	if err != nil {
		t.Fatalf("build geographic: %v", err)
	}

	nodes := g.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2 (Istanbul, Vienna)", len(nodes))
	}
	if nodes[0].Key != "Istanbul" || nodes[1].Key != "Vienna" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestEconomic_Communities(t *testing.T) {
	e := newLoadedEngine(t, WithCommunitySeed(7))

	g, err := e.Economic().Do(context.Background())
	if err != nil {
		t.Fatalf("build economic: %v", err)
	}

	first, err := g.Communities()
	if err != nil {
		t.Fatalf("communities: %v", err)
	}
	second, err := g.Communities()
	if err != nil {
		t.Fatalf("communities again: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected community assignments")
	}
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("communities not deterministic for %q: %d vs %d", k, v, second[k])
		}
	}
}

func TestTimeline_MonthlyCumulative(t *testing.T) {
	e := newLoadedEngine(t)

	items, err := e.Social().Timeline(context.Background())
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (Jan-Mar 1847)", len(items))
	}
	if items[0].Letters != 1 || items[2].Letters != 3 {
		t.Errorf("cumulative counts: got first=%d last=%d, want 1 and 3",
			items[0].Letters, items[2].Letters)
	}
	if items[2].Summary.Nodes != 3 {
		t.Errorf("final snapshot nodes: got %d, want 3", items[2].Summary.Nodes)
	}
}

func TestAt_BoundarySlice(t *testing.T) {
	e := newLoadedEngine(t)

	boundary := time.Date(1847, 1, 31, 0, 0, 0, 0, time.UTC)
	g, err := e.Social().At(context.Background(), boundary)
	if err != nil {
		t.Fatalf("build at boundary: %v", err)
	}
	if s := g.Summary(); s.Nodes != 2 || s.Edges != 1 {
		t.Errorf("got %d nodes %d edges at boundary, want 2 and 1", s.Nodes, s.Edges)
	}
}
