package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// Endpoint paths served by the swarm backend.
const (
	PathHealth        = "/api/health"
	PathAgentStatus   = "/api/agents/status"
	PathChat          = "/api/chat"
	PathInvest        = "/api/invest"
	PathPortfolio     = "/api/portfolio/"
	PathOpportunities = "/api/opportunities"
	PathWebSocket     = "/ws/"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// HTTPClient implements SwarmClient over HTTP/JSON and WebSocket.
// It carries no timeout and no retry policy; callers bound calls with ctx.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new client targeting the given base URL
// (e.g. "http://localhost:8080"). An empty baseURL selects DefaultBaseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Close is a no-op for the HTTP client; subscriptions are closed individually.
func (c *HTTPClient) Close() error { return nil }

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, PathHealth, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- Agents ---

func (c *HTTPClient) AgentStatuses(ctx context.Context) (model.StatusSnapshot, error) {
	raw, err := c.Request(ctx, http.MethodGet, PathAgentStatus, nil)
	if err != nil {
		return nil, err
	}
	snap, err := DecodeStatusSnapshot(raw)
	if err != nil {
		return nil, &TransportError{Endpoint: PathAgentStatus, Cause: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
	}
	return snap, nil
}

// --- Conversation ---

func (c *HTTPClient) SendChat(ctx context.Context, text, userID string) (*model.ChatResponse, error) {
	var resp model.ChatResponse
	body := model.ChatRequest{Text: text, UserID: userID}
	if err := c.doJSON(ctx, http.MethodPost, PathChat, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Portfolio ---

func (c *HTTPClient) CreateInvestment(ctx context.Context, req *model.InvestmentRequest) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, PathInvest, req)
}

func (c *HTTPClient) GetPortfolio(ctx context.Context, userID string) (*model.Portfolio, error) {
	var p model.Portfolio
	if err := c.doJSON(ctx, http.MethodGet, PathPortfolio+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetOpportunities(ctx context.Context) (*model.OpportunitiesResponse, error) {
	var resp model.OpportunitiesResponse
	if err := c.doJSON(ctx, http.MethodGet, PathOpportunities, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- internal helpers ---

// Request performs an HTTP request with an optional JSON body and returns the
// response body verbatim once it is known to be valid JSON. Every request
// carries Content-Type: application/json. No schema validation is applied.
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	if !json.Valid(respBody) {
		return nil, &TransportError{Endpoint: endpoint, Cause: ErrMalformedJSON}
	}
	return json.RawMessage(respBody), nil
}

// doJSON performs Request and decodes the body into result.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body any, result any) error {
	raw, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
	}
	return nil
}
