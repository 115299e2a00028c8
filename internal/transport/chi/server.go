// Package chi exposes the correspondence engine over HTTP. Routes are
// hand-mounted on a chi router; request and response shapes live here,
// next to their converters.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/domain/graph"
	"github.com/Bestroi150/georgievi-network/internal/domain/letter"
	"github.com/Bestroi150/georgievi-network/internal/domain/query"
	"github.com/Bestroi150/georgievi-network/internal/metrics"
	"github.com/Bestroi150/georgievi-network/internal/usecase/analyze"
	healthuc "github.com/Bestroi150/georgievi-network/internal/usecase/health"
	ingestuc "github.com/Bestroi150/georgievi-network/internal/usecase/ingest"
	sequenceuc "github.com/Bestroi150/georgievi-network/internal/usecase/sequence"
)

const maxListLimit = 500

// errorCode is the machine-readable error discriminator in JSON errors.
type errorCode string

const (
	codeBadRequest           errorCode = "bad_request"
	codeValidationFailed     errorCode = "validation_failed"
	codeDuplicateRecord      errorCode = "duplicate_record"
	codeNotFound             errorCode = "not_found"
	codeEmptyGraph           errorCode = "empty_graph"
	codeExtractorUnavailable errorCode = "extractor_unavailable"
	codeInternalError        errorCode = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// GraphBuilder constructs a projection over records matching the criteria.
type GraphBuilder interface {
	Build(ctx context.Context, kind graph.Kind, criteria query.Criteria) (*graph.Graph, error)
}

// RecordReader is the record store surface the listing endpoints need.
type RecordReader interface {
	Get(id string) (*letter.Letter, error)
	Filter(c query.Criteria) iter.Seq[*letter.Letter]
	Len() int
	UndatedCount() int
}

// Server routes HTTP requests to the engine services.
type Server struct {
	ingest        *ingestuc.Service
	builder       GraphBuilder
	sequencer     *sequenceuc.Service
	records       RecordReader
	health        *healthuc.Service
	communitySeed int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	builder GraphBuilder,
	sequencer *sequenceuc.Service,
	records RecordReader,
	health *healthuc.Service,
	communitySeed int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:        ingest,
		builder:       builder,
		sequencer:     sequencer,
		records:       records,
		health:        health,
		communitySeed: communitySeed,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDuplicateRecord, http.StatusConflict, codeDuplicateRecord),
		sentinelHandler(domain.ErrMalformedDate, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmptyGraph, http.StatusUnprocessableEntity, codeEmptyGraph),
		sentinelHandler(domain.ErrExtractorUnavailable, http.StatusBadGateway, codeExtractorUnavailable),
	}
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/letters", s.IngestLetters)
		r.Get("/letters", s.ListLetters)
		r.Get("/letters/{id}", s.GetLetter)
		r.Post("/graphs/{kind}", s.BuildGraph)
		r.Post("/graphs/{kind}/timeline", s.BuildTimeline)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// placePayload is a place mention in an ingest request.
type placePayload struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	Ref  string   `json:"ref,omitempty"`
}

// letterPayload is one correspondence record in an ingest request.
type letterPayload struct {
	ID               string         `json:"id"`
	Sender           string         `json:"sender"`
	Addressee        string         `json:"addressee"`
	Date             string         `json:"date,omitempty"`
	Origin           string         `json:"origin,omitempty"`
	Destination      string         `json:"destination,omitempty"`
	MentionedPlaces  []placePayload `json:"mentioned_places,omitempty"`
	MentionedPersons []string       `json:"mentioned_persons,omitempty"`
	MainTopics       []string       `json:"main_topics,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	Content          string         `json:"content,omitempty"`
}

type ingestRequest struct {
	Letters []letterPayload `json:"letters"`
}

type ingestResponse struct {
	Loaded      int `json:"loaded"`
	Dated       int `json:"dated"`
	Partitioned int `json:"partitioned"`
}

// IngestLetters handles POST /api/v1/letters. The batch replaces the
// current corpus; any invalid record rejects the whole batch.
func (s *Server) IngestLetters(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Letters) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "letters must not be empty")
		return
	}

	raws := make([]ingestuc.RawLetter, len(req.Letters))
	for i, p := range req.Letters {
		raws[i] = rawLetterFromPayload(p)
	}

	report, err := s.ingest.Ingest(r.Context(), raws)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{
		Loaded:      report.Loaded,
		Dated:       report.Dated,
		Partitioned: report.Partitioned,
	})
}

// letterResponse is a correspondence record in listing responses.
type letterResponse struct {
	ID               string         `json:"id"`
	Sender           string         `json:"sender"`
	Addressee        string         `json:"addressee"`
	Date             string         `json:"date,omitempty"`
	Origin           string         `json:"origin,omitempty"`
	Destination      string         `json:"destination,omitempty"`
	MentionedPlaces  []placePayload `json:"mentioned_places,omitempty"`
	MentionedPersons []string       `json:"mentioned_persons,omitempty"`
	Topics           []string       `json:"topics,omitempty"`
	Commodities      []string       `json:"commodities,omitempty"`
}

type letterListResponse struct {
	Items   []letterResponse `json:"items"`
	Total   int              `json:"total"`
	Undated int              `json:"undated"`
}

// ListLetters handles GET /api/v1/letters. Query parameters mirror the
// filter criteria: from, to, participant (repeatable), place
// (repeatable), text, limit.
func (s *Server) ListLetters(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := maxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		if v < maxListLimit {
			limit = v
		}
	}

	items := make([]letterResponse, 0, 16)
	total := 0
	for l := range s.records.Filter(criteria) {
		total++
		if len(items) < limit {
			items = append(items, letterToResponse(l))
		}
	}

	writeJSON(w, http.StatusOK, letterListResponse{
		Items:   items,
		Total:   total,
		Undated: s.records.UndatedCount(),
	})
}

// GetLetter handles GET /api/v1/letters/{id}.
func (s *Server) GetLetter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := s.records.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, letterToResponse(l))
}

// buildGraphRequest selects records and the metrics to annotate with.
type buildGraphRequest struct {
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Places       []string `json:"places,omitempty"`
	Text         string   `json:"text,omitempty"`
	Metrics      []string `json:"metrics,omitempty"`
}

// graphResponse is a built projection with its summary and any
// requested metrics.
type graphResponse struct {
	Graph       graph.Snapshot     `json:"graph"`
	Summary     analyze.Summary    `json:"summary"`
	Degree      map[string]float64 `json:"degree,omitempty"`
	Betweenness map[string]float64 `json:"betweenness,omitempty"`
	Closeness   map[string]float64 `json:"closeness,omitempty"`
	Communities map[string]int     `json:"communities,omitempty"`
}

// BuildGraph handles POST /api/v1/graphs/{kind}.
func (s *Server) BuildGraph(w http.ResponseWriter, r *http.Request) {
	kind, err := graph.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req buildGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	criteria, err := criteriaFromRequest(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	g, err := s.buildInstrumented(r.Context(), kind, criteria)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := graphResponse{
		Graph:   g.Snapshot(),
		Summary: analyze.Summarize(g),
	}
	if err := s.annotate(r.Context(), &resp, g, req.Metrics); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// buildInstrumented wraps a build with prometheus counters.
func (s *Server) buildInstrumented(
	ctx context.Context, kind graph.Kind, criteria query.Criteria,
) (*graph.Graph, error) {
	start := time.Now()
	g, err := s.builder.Build(ctx, kind, criteria)
	metrics.GraphBuildDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.GraphBuildsTotal.WithLabelValues(kind.String(), status).Inc()
	return g, err
}

// annotate computes the requested metrics over the built projection.
func (s *Server) annotate(ctx context.Context, resp *graphResponse, g *graph.Graph, names []string) error {
	for _, name := range names {
		var err error
		switch name {
		case "degree":
			resp.Degree, err = analyze.Degree(g)
		case "betweenness":
			resp.Betweenness, err = analyze.Betweenness(ctx, g)
		case "closeness":
			resp.Closeness, err = analyze.Closeness(g)
		case "communities":
			resp.Communities, err = analyze.Communities(g, s.communitySeed)
		default:
			return domain.NewFieldError("", "metrics", "unknown metric "+name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// timelineRequest selects records and the boundaries of the series.
// Boundaries may be listed explicitly or derived with interval
// "monthly" over the dated span of the corpus.
type timelineRequest struct {
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	Participants  []string `json:"participants,omitempty"`
	Places        []string `json:"places,omitempty"`
	Text          string   `json:"text,omitempty"`
	Boundaries    []string `json:"boundaries,omitempty"`
	Interval      string   `json:"interval,omitempty"`
	IncludeGraphs bool     `json:"include_graphs,omitempty"`
}

type timelineItem struct {
	Boundary string          `json:"boundary"`
	Letters  int             `json:"letters"`
	Summary  analyze.Summary `json:"summary"`
	Graph    *graph.Snapshot `json:"graph,omitempty"`
}

type timelineResponse struct {
	Items []timelineItem `json:"items"`
}

// BuildTimeline handles POST /api/v1/graphs/{kind}/timeline.
func (s *Server) BuildTimeline(w http.ResponseWriter, r *http.Request) {
	kind, err := graph.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req timelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	criteria, err := criteriaFromRequest(buildGraphRequest{
		From:         req.From,
		To:           req.To,
		Participants: req.Participants,
		Places:       req.Places,
		Text:         req.Text,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	boundaries, err := s.boundariesFromRequest(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	series, err := s.sequencer.Series(r.Context(), kind, criteria, boundaries)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]timelineItem, len(series))
	for i, snap := range series {
		items[i] = timelineItem{
			Boundary: snap.Boundary.Format("2006-01-02"),
			Letters:  snap.Letters,
			Summary:  snap.Summary,
		}
		if req.IncludeGraphs {
			snapshot := snap.Graph.Snapshot()
			items[i].Graph = &snapshot
		}
	}

	writeJSON(w, http.StatusOK, timelineResponse{Items: items})
}

func (s *Server) boundariesFromRequest(req timelineRequest) ([]time.Time, error) {
	switch {
	case len(req.Boundaries) > 0:
		out := make([]time.Time, len(req.Boundaries))
		for i, raw := range req.Boundaries {
			b, err := letter.ParseDate(raw)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	case req.Interval == "monthly" || req.Interval == "":
		boundaries := s.sequencer.MonthlyBoundaries()
		if len(boundaries) == 0 {
			return nil, domain.NewFieldError("", "boundaries", "no dated records to derive boundaries from")
		}
		return boundaries, nil
	default:
		return nil, domain.NewFieldError("", "interval", "unknown interval "+req.Interval)
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func rawLetterFromPayload(p letterPayload) ingestuc.RawLetter {
	places := make([]ingestuc.RawPlace, len(p.MentionedPlaces))
	for i, mp := range p.MentionedPlaces {
		places[i] = ingestuc.RawPlace{Name: mp.Name, Lat: mp.Lat, Lon: mp.Lon, Ref: mp.Ref}
	}
	return ingestuc.RawLetter{
		ID:               p.ID,
		Sender:           p.Sender,
		Addressee:        p.Addressee,
		Date:             p.Date,
		Origin:           p.Origin,
		Destination:      p.Destination,
		MentionedPlaces:  places,
		MentionedPersons: p.MentionedPersons,
		MainTopics:       p.MainTopics,
		Keywords:         p.Keywords,
		Content:          p.Content,
	}
}

func letterToResponse(l *letter.Letter) letterResponse {
	resp := letterResponse{
		ID:               l.ID(),
		Sender:           l.Sender(),
		Addressee:        l.Addressee(),
		Origin:           l.Origin(),
		Destination:      l.Destination(),
		MentionedPersons: l.MentionedPersons(),
		Topics:           l.Topics(),
		Commodities:      l.Commodities(),
	}
	if l.Dated() {
		resp.Date = l.Date().Format("2006-01-02")
	}
	for _, p := range l.MentionedPlaces() {
		pp := placePayload{Name: p.Name(), Ref: p.Ref()}
		if lat, lon, ok := p.Coords(); ok {
			pp.Lat = &lat
			pp.Lon = &lon
		}
		resp.MentionedPlaces = append(resp.MentionedPlaces, pp)
	}
	return resp
}

func criteriaFromRequest(req buildGraphRequest) (query.Criteria, error) {
	criteria := query.Criteria{}.
		WithParticipants(req.Participants...).
		WithPlaces(req.Places...).
		WithText(req.Text)
	return criteriaWithDates(criteria, req.From, req.To)
}

func criteriaFromQuery(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()
	criteria := (query.Criteria{}).
		WithParticipants(q["participant"]...).
		WithPlaces(q["place"]...).
		WithText(q.Get("text"))
	return criteriaWithDates(criteria, q.Get("from"), q.Get("to"))
}

func criteriaWithDates(criteria query.Criteria, fromRaw, toRaw string) (query.Criteria, error) {
	var from, to time.Time
	var err error
	if fromRaw != "" {
		if from, err = letter.ParseDate(fromRaw); err != nil {
			return query.Criteria{}, err
		}
	}
	if toRaw != "" {
		if to, err = letter.ParseDate(toRaw); err != nil {
			return query.Criteria{}, err
		}
	}
	if fromRaw == "" && toRaw == "" {
		return criteria, nil
	}
	return criteria.WithDateRange(from, to)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	sentinels := []error{
		domain.ErrDuplicateRecord,
		domain.ErrMalformedDate,
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrEmptyGraph,
		domain.ErrExtractorUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
