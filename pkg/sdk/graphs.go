package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// Projection kinds accepted by BuildGraph and BuildTimeline.
const (
	KindSocial     = "social"
	KindGeographic = "geographic"
	KindThematic   = "thematic"
	KindEconomic   = "economic"
)

// BuildGraph builds a projection over records matching the query.
func (c *Client) BuildGraph(ctx context.Context, kind string, query GraphQuery) (GraphResult, error) {
	var result GraphResult
	path := "/api/v1/graphs/" + url.PathEscape(kind)
	if err := c.do(ctx, http.MethodPost, path, nil, query, &result); err != nil {
		return GraphResult{}, err
	}
	return result, nil
}

// BuildTimeline builds a cumulative snapshot series for a projection.
func (c *Client) BuildTimeline(ctx context.Context, kind string, query TimelineQuery) (Timeline, error) {
	var timeline Timeline
	path := "/api/v1/graphs/" + url.PathEscape(kind) + "/timeline"
	if err := c.do(ctx, http.MethodPost, path, nil, query, &timeline); err != nil {
		return Timeline{}, err
	}
	return timeline, nil
}
