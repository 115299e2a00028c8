package sdk

// Place is a place mention, optionally georeferenced.
type Place struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	Ref  string   `json:"ref,omitempty"`
}

// Letter is a correspondence record submitted for ingestion.
type Letter struct {
	ID               string   `json:"id"`
	Sender           string   `json:"sender"`
	Addressee        string   `json:"addressee"`
	Date             string   `json:"date,omitempty"`
	Origin           string   `json:"origin,omitempty"`
	Destination      string   `json:"destination,omitempty"`
	MentionedPlaces  []Place  `json:"mentioned_places,omitempty"`
	MentionedPersons []string `json:"mentioned_persons,omitempty"`
	MainTopics       []string `json:"main_topics,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Content          string   `json:"content,omitempty"`
}

// LetterRecord is a stored correspondence record.
type LetterRecord struct {
	ID               string   `json:"id"`
	Sender           string   `json:"sender"`
	Addressee        string   `json:"addressee"`
	Date             string   `json:"date,omitempty"`
	Origin           string   `json:"origin,omitempty"`
	Destination      string   `json:"destination,omitempty"`
	MentionedPlaces  []Place  `json:"mentioned_places,omitempty"`
	MentionedPersons []string `json:"mentioned_persons,omitempty"`
	Topics           []string `json:"topics,omitempty"`
	Commodities      []string `json:"commodities,omitempty"`
}

// IngestReport summarizes an accepted batch.
type IngestReport struct {
	Loaded      int `json:"loaded"`
	Dated       int `json:"dated"`
	Partitioned int `json:"partitioned"`
}

// LetterList is a filtered listing of records.
type LetterList struct {
	Items   []LetterRecord `json:"items"`
	Total   int            `json:"total"`
	Undated int            `json:"undated"`
}

// ListFilter narrows a letter listing. Zero values are ignored.
type ListFilter struct {
	From         string
	To           string
	Participants []string
	Places       []string
	Text         string
	Limit        int
}

// Node is a graph vertex.
type Node struct {
	Key    string   `json:"key"`
	Kind   string   `json:"kind"`
	Weight int      `json:"weight"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

// Edge is an undirected weighted edge.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Graph is a built projection.
type Graph struct {
	Kind  string `json:"kind"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Summary is the structural overview of a projection.
type Summary struct {
	Nodes       int     `json:"nodes"`
	Edges       int     `json:"edges"`
	TotalWeight int     `json:"total_weight"`
	Density     float64 `json:"density"`
	Connected   bool    `json:"connected"`
	Components  int     `json:"components"`
}

// GraphQuery selects records and the metrics to annotate with.
type GraphQuery struct {
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Places       []string `json:"places,omitempty"`
	Text         string   `json:"text,omitempty"`
	Metrics      []string `json:"metrics,omitempty"`
}

// GraphResult is a built projection with its summary and requested
// metrics.
type GraphResult struct {
	Graph       Graph              `json:"graph"`
	Summary     Summary            `json:"summary"`
	Degree      map[string]float64 `json:"degree,omitempty"`
	Betweenness map[string]float64 `json:"betweenness,omitempty"`
	Closeness   map[string]float64 `json:"closeness,omitempty"`
	Communities map[string]int     `json:"communities,omitempty"`
}

// TimelineQuery selects records and boundaries for a snapshot series.
type TimelineQuery struct {
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	Participants  []string `json:"participants,omitempty"`
	Places        []string `json:"places,omitempty"`
	Text          string   `json:"text,omitempty"`
	Boundaries    []string `json:"boundaries,omitempty"`
	Interval      string   `json:"interval,omitempty"`
	IncludeGraphs bool     `json:"include_graphs,omitempty"`
}

// TimelineItem is the projection state at one boundary.
type TimelineItem struct {
	Boundary string  `json:"boundary"`
	Letters  int     `json:"letters"`
	Summary  Summary `json:"summary"`
	Graph    *Graph  `json:"graph,omitempty"`
}

// Timeline is a chronological snapshot series.
type Timeline struct {
	Items []TimelineItem `json:"items"`
}

// HealthReport is the aggregated server health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
