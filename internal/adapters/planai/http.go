package planai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPGenerator calls a JSON planning endpoint.
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPGenerator creates a generator for the given endpoint.
// PRE: endpoint is a full URL accepting POST requests
func NewHTTPGenerator(endpoint, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the service's response wrapper.
type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

var ErrServiceUnavailable = errors.New("plan service unavailable")

// GeneratePlan posts the request and decodes the drafted plan.
// POST: returns a retryable error on transport or service failure; preview
// state held by the caller is never touched here
func (g *HTTPGenerator) GeneratePlan(ctx context.Context, req Request) (Plan, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Plan{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Plan{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Plan{}, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if !env.OK {
		if env.Error == "" {
			env.Error = "unknown error"
		}
		return Plan{}, fmt.Errorf("%w: %s", ErrServiceUnavailable, env.Error)
	}

	var p Plan
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return p, nil
}
