package planai

import "context"

// NoopGenerator is used when no planning endpoint is configured.
type NoopGenerator struct{}

// GeneratePlan always reports the service as unavailable.
func (NoopGenerator) GeneratePlan(ctx context.Context, req Request) (Plan, error) {
	return Plan{}, ErrServiceUnavailable
}
