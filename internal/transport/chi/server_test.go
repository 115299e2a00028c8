package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/repository/letters"
	buildUc "github.com/Bestroi150/georgievi-network/internal/usecase/build"
	healthuc "github.com/Bestroi150/georgievi-network/internal/usecase/health"
	ingestuc "github.com/Bestroi150/georgievi-network/internal/usecase/ingest"
	sequenceuc "github.com/Bestroi150/georgievi-network/internal/usecase/sequence"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T) (http.Handler, *letters.Store) {
	t.Helper()

	store := letters.NewStore()
	buildSvc := buildUc.New(store, buildUc.GeoRoute)
	sequenceSvc := sequenceuc.New(buildSvc, store)
	ingestSvc := ingestuc.New(store, nil, nil, ingestuc.DateReject, zap.NewNop())
	healthSvc := healthuc.New(&stubPinger{}, nil)

	server := NewServer(ingestSvc, buildSvc, sequenceSvc, store, healthSvc, 1, zap.NewNop())
	r := chi.NewRouter()
	server.Mount(r)
	return r, store
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func loadSampleCorpus(t *testing.T, h http.Handler) {
	t.Helper()
	rr := postJSON(t, h, "/api/v1/letters", ingestRequest{Letters: []letterPayload{
		{ID: "l1", Sender: "Anastas", Addressee: "Boris", Date: "05.01.1847",
			Origin: "Plovdiv", Destination: "Vienna", Keywords: []string{"wool"}},
		{ID: "l2", Sender: "Boris", Addressee: "Anastas", Date: "20.02.1847",
			Origin: "Vienna", Destination: "Plovdiv", Keywords: []string{"wool", "credit"}},
		{ID: "l3", Sender: "Boris", Addressee: "Cvetan", Date: "11.03.1847",
			Origin: "Vienna", Destination: "Istanbul", Keywords: []string{"credit"}},
	}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("ingest: got %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
}

func TestIngestLetters_ReportsCounts(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/api/v1/letters", ingestRequest{Letters: []letterPayload{
		{ID: "l1", Sender: "A", Addressee: "B", Date: "05.01.1847"},
		{ID: "l2", Sender: "B", Addressee: "C"},
	}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp ingestResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Loaded != 2 || resp.Dated != 1 {
		t.Errorf("got loaded=%d dated=%d, want loaded=2 dated=1", resp.Loaded, resp.Dated)
	}
}

func TestIngestLetters_EmptyBatch_400(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/api/v1/letters", ingestRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestIngestLetters_DuplicateID_409(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/api/v1/letters", ingestRequest{Letters: []letterPayload{
		{ID: "l1", Sender: "A", Addressee: "B"},
		{ID: "l1", Sender: "C", Addressee: "D"},
	}})
	if rr.Code != http.StatusConflict {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusConflict)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeDuplicateRecord {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeDuplicateRecord)
	}
}

func TestIngestLetters_MalformedDate_400(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/api/v1/letters", ingestRequest{Letters: []letterPayload{
		{ID: "l1", Sender: "A", Addressee: "B", Date: "not-a-date"},
	}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestListLetters_FiltersByParticipant(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	req := httptest.NewRequest("GET", "/api/v1/letters?participant=Cvetan", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp letterListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("got total=%d items=%d, want 1 item", resp.Total, len(resp.Items))
	}
	if resp.Items[0].ID != "l3" {
		t.Errorf("got id %q, want l3", resp.Items[0].ID)
	}
}

func TestListLetters_BadDate_400(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	req := httptest.NewRequest("GET", "/api/v1/letters?from=garbage", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetLetter_NotFound_404(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	req := httptest.NewRequest("GET", "/api/v1/letters/missing", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestGetLetter_ReturnsRecord(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	req := httptest.NewRequest("GET", "/api/v1/letters/l2", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp letterResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Sender != "Boris" || resp.Date != "1847-02-20" {
		t.Errorf("got sender=%q date=%q, want Boris / 1847-02-20", resp.Sender, resp.Date)
	}
}

func TestBuildGraph_SocialWeights(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social", buildGraphRequest{})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp graphResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Summary.Nodes != 3 || resp.Summary.Edges != 2 {
		t.Fatalf("got %d nodes %d edges, want 3 and 2", resp.Summary.Nodes, resp.Summary.Edges)
	}

	weights := map[string]int{}
	for _, e := range resp.Graph.Edges {
		weights[e.A+"|"+e.B] = e.Weight
	}
	if weights["Anastas|Boris"] != 2 {
		t.Errorf("Anastas-Boris weight: got %d, want 2", weights["Anastas|Boris"])
	}
	if weights["Boris|Cvetan"] != 1 {
		t.Errorf("Boris-Cvetan weight: got %d, want 1", weights["Boris|Cvetan"])
	}
}

func TestBuildGraph_WithMetrics(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social", buildGraphRequest{
		Metrics: []string{"degree", "betweenness", "communities"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp graphResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Degree) != 3 || len(resp.Betweenness) != 3 || len(resp.Communities) != 3 {
		t.Errorf("expected metrics over 3 nodes, got degree=%d betweenness=%d communities=%d",
			len(resp.Degree), len(resp.Betweenness), len(resp.Communities))
	}
	if resp.Betweenness["Boris"] != 1.0 {
		t.Errorf("Boris betweenness: got %v, want 1.0", resp.Betweenness["Boris"])
	}
}

func TestBuildGraph_UnknownMetric_400(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social", buildGraphRequest{
		Metrics: []string{"pagerank"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestBuildGraph_UnknownKind_400(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/astral", buildGraphRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestBuildGraph_MetricOnEmptyGraph_422(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social", buildGraphRequest{
		Participants: []string{"nobody"},
		Metrics:      []string{"degree"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("got %d, want %d: %s", rr.Code, http.StatusUnprocessableEntity, rr.Body.String())
	}
}

func TestBuildTimeline_MonthlySeries(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social/timeline", timelineRequest{Interval: "monthly"})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp timelineResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want 3 (Jan-Mar 1847)", len(resp.Items))
	}
	if resp.Items[0].Letters != 1 || resp.Items[2].Letters != 3 {
		t.Errorf("cumulative counts: got first=%d last=%d, want 1 and 3",
			resp.Items[0].Letters, resp.Items[2].Letters)
	}
	if resp.Items[0].Graph != nil {
		t.Error("graphs should be omitted unless include_graphs is set")
	}
}

func TestBuildTimeline_ExplicitBoundaries(t *testing.T) {
	h, _ := newTestRouter(t)
	loadSampleCorpus(t, h)

	rr := postJSON(t, h, "/api/v1/graphs/social/timeline", timelineRequest{
		Boundaries:    []string{"1847-02-28"},
		IncludeGraphs: true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp timelineResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(resp.Items))
	}
	if resp.Items[0].Graph == nil {
		t.Fatal("expected graph in response")
	}
	if got := len(resp.Items[0].Graph.Nodes); got != 2 {
		t.Errorf("got %d nodes at boundary, want 2", got)
	}
}

func TestHealthCheck_OK(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
	}
}
