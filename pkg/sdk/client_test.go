package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_EmptyBaseURL(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestIngestLetters_SendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Letters []Letter `json:"letters"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/letters" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(IngestReport{Loaded: 1, Dated: 1})
	}, WithAPIKey("secret"))

	report, err := c.IngestLetters(context.Background(), []Letter{
		{ID: "l1", Sender: "A", Addressee: "B", Date: "05.01.1847"},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization header: got %q", gotAuth)
	}
	if len(gotBody.Letters) != 1 || gotBody.Letters[0].ID != "l1" {
		t.Errorf("unexpected body: %+v", gotBody)
	}
	if report.Loaded != 1 || report.Dated != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestListLetters_EncodesFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "1847-01-01" || q.Get("text") != "wool" {
			t.Errorf("unexpected query: %v", q)
		}
		if got := q["participant"]; len(got) != 2 {
			t.Errorf("participants: got %v, want 2 values", got)
		}
		_ = json.NewEncoder(w).Encode(LetterList{Total: 2})
	})

	list, err := c.ListLetters(context.Background(), ListFilter{
		From:         "1847-01-01",
		Participants: []string{"Anastas", "Boris"},
		Text:         "wool",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 2 {
		t.Errorf("total: got %d, want 2", list.Total)
	}
}

func TestGetLetter_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "not_found",
			"message": "not found: letter \"missing\"",
		})
	})

	_, err := c.GetLetter(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected not-found API error, got %v", err)
	}
}

func TestBuildGraph_DecodesResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/graphs/social" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(GraphResult{
			Graph: Graph{
				Kind:  "social",
				Nodes: []Node{{Key: "A", Kind: "person", Weight: 1}},
			},
			Summary:     Summary{Nodes: 1},
			Betweenness: map[string]float64{"A": 0},
		})
	})

	result, err := c.BuildGraph(context.Background(), KindSocial, GraphQuery{
		Metrics: []string{"betweenness"},
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	if result.Graph.Kind != "social" || len(result.Graph.Nodes) != 1 {
		t.Errorf("unexpected graph: %+v", result.Graph)
	}
	if _, ok := result.Betweenness["A"]; !ok {
		t.Error("expected betweenness for node A")
	}
}

func TestBuildGraph_ValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "validation_failed",
			"message": "validation failed",
		})
	})

	_, err := c.BuildGraph(context.Background(), "astral", GraphQuery{})
	if !IsValidation(err) {
		t.Errorf("expected validation API error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "validation_failed" {
		t.Errorf("unexpected error detail: %v", err)
	}
}

func TestBuildTimeline_DecodesSeries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/graphs/social/timeline" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Timeline{Items: []TimelineItem{
			{Boundary: "1847-01-31", Letters: 1},
			{Boundary: "1847-02-28", Letters: 3},
		}})
	})

	timeline, err := c.BuildTimeline(context.Background(), KindSocial, TimelineQuery{Interval: "monthly"})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline.Items) != 2 || timeline.Items[1].Letters != 3 {
		t.Errorf("unexpected timeline: %+v", timeline)
	}
}

func TestHealth_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(HealthReport{
			Status: "ok",
			Checks: map[string]string{"cache": "ok"},
		})
	})

	report, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if report.Status != "ok" || report.Checks["cache"] != "ok" {
		t.Errorf("unexpected report: %+v", report)
	}
}
