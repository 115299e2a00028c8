package sdk

import (
	"context"
	"net/http"
)

// Health returns the server health report. A degraded server responds
// with status 503, surfaced as an *APIError.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &report); err != nil {
		return HealthReport{}, err
	}
	return report, nil
}
