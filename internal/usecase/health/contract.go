package health

import "context"

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ExtractorChecker checks extraction provider availability.
type ExtractorChecker interface {
	HealthCheck(ctx context.Context) error
}
