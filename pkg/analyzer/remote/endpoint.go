package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrWong99/inkwell/pkg/analyzer"
	"github.com/MrWong99/inkwell/pkg/types"
)

const (
	defaultTimeout = 15 * time.Second

	// maxResponseBytes bounds how much of a response body is read, so a
	// misbehaving endpoint cannot exhaust memory.
	maxResponseBytes = 1 << 20
)

// analyzeRequest is the JSON body sent to the analysis endpoint.
type analyzeRequest struct {
	Text string `json:"text"`
}

// EndpointOption is a functional option for configuring an [EndpointClient].
type EndpointOption func(*EndpointClient)

// WithHTTPClient substitutes the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) EndpointOption {
	return func(c *EndpointClient) {
		c.httpClient = hc
	}
}

// WithAPIKey sets a bearer token attached to every request.
func WithAPIKey(key string) EndpointOption {
	return func(c *EndpointClient) {
		c.apiKey = key
	}
}

// EndpointClient analyses documents through a dedicated HTTP analysis
// endpoint speaking the same wire format as the LLM client. It is safe for
// concurrent use.
type EndpointClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// Compile-time interface assertion.
var _ analyzer.ScoringAnalyzer = (*EndpointClient)(nil)

// NewEndpointClient returns an EndpointClient posting to url.
func NewEndpointClient(url string, opts ...EndpointOption) (*EndpointClient, error) {
	if url == "" {
		return nil, fmt.Errorf("remote: endpoint url must not be empty")
	}
	c := &EndpointClient{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Name implements [analyzer.ScoringAnalyzer].
func (c *EndpointClient) Name() string { return "remote-endpoint" }

// Analyze posts text to the endpoint and normalises the response. Non-2xx
// statuses and malformed bodies are returned as errors for the resilience
// chain to handle.
func (c *EndpointClient) Analyze(ctx context.Context, text string) (*types.AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("remote: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: post %q: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote: endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}

	payload, err := parsePayload(string(raw))
	if err != nil {
		return nil, err
	}

	findings, scores := normalize(payload, text)
	return &types.AnalysisResult{Findings: findings, Scores: scores}, nil
}
