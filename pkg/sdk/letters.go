package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// IngestLetters submits a batch, replacing the server's current corpus.
func (c *Client) IngestLetters(ctx context.Context, letters []Letter) (IngestReport, error) {
	var report IngestReport
	body := struct {
		Letters []Letter `json:"letters"`
	}{Letters: letters}

	if err := c.do(ctx, http.MethodPost, "/api/v1/letters", nil, body, &report); err != nil {
		return IngestReport{}, err
	}
	return report, nil
}

// ListLetters returns records matching the filter.
func (c *Client) ListLetters(ctx context.Context, filter ListFilter) (LetterList, error) {
	q := url.Values{}
	if filter.From != "" {
		q.Set("from", filter.From)
	}
	if filter.To != "" {
		q.Set("to", filter.To)
	}
	for _, p := range filter.Participants {
		q.Add("participant", p)
	}
	for _, p := range filter.Places {
		q.Add("place", p)
	}
	if filter.Text != "" {
		q.Set("text", filter.Text)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var list LetterList
	if err := c.do(ctx, http.MethodGet, "/api/v1/letters", q, nil, &list); err != nil {
		return LetterList{}, err
	}
	return list, nil
}

// GetLetter returns a single record by id.
func (c *Client) GetLetter(ctx context.Context, id string) (LetterRecord, error) {
	var record LetterRecord
	path := "/api/v1/letters/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &record); err != nil {
		return LetterRecord{}, fmt.Errorf("get letter %q: %w", id, err)
	}
	return record, nil
}
