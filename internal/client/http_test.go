package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method        string
	path          string
	rawPath       string // URL-encoded path (for testing PathEscape)
	body          string
	contentType   string
	authorization string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.rawPath = r.URL.RawPath
	h.contentType = r.Header.Get("Content-Type")
	h.authorization = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL)
	return c, srv
}

// --- Request ---

func TestHTTPClient_Request_ReturnsBodyVerbatim(t *testing.T) {
	h := &testHandler{responseBody: `{"anything": [1, 2, {"nested": true}]}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	raw, err := c.Request(context.Background(), http.MethodGet, "/api/whatever", nil)
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if string(raw) != h.responseBody {
		t.Errorf("body = %s, want %s", raw, h.responseBody)
	}
	if h.contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", h.contentType)
	}
	if h.authorization != "" {
		t.Errorf("Authorization = %q, want none", h.authorization)
	}
	if h.body != "" {
		t.Errorf("request body = %q, want empty for nil body", h.body)
	}
}

func TestHTTPClient_Request_ContentTypeOnPost(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.Request(context.Background(), http.MethodPost, "/api/x", map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if h.contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", h.contentType)
	}
	if h.body != `{"n":1}` {
		t.Errorf("body = %q", h.body)
	}
}

func TestNewHTTPClient_DefaultsAndTrim(t *testing.T) {
	if got := NewHTTPClient("").BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultBaseURL)
	}
	if got := NewHTTPClient("http://example.test:9000/").BaseURL(); got != "http://example.test:9000" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

// --- Health ---

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{
		responseBody: `{"status": "healthy"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	if h.method != http.MethodGet {
		t.Errorf("method = %q, want GET", h.method)
	}
	if h.path != "/api/health" {
		t.Errorf("path = %q, want /api/health", h.path)
	}
	if status != "healthy" {
		t.Errorf("status = %q, want 'healthy'", status)
	}
}

// --- AgentStatuses ---

func TestHTTPClient_AgentStatuses_MapForm(t *testing.T) {
	h := &testHandler{
		responseBody: `{"chain_scanner": {"online": false}, "portfolio_coordinator": {"online": true, "lastActivity": "now"}}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	snap, err := c.AgentStatuses(context.Background())
	if err != nil {
		t.Fatalf("AgentStatuses() error = %v", err)
	}
	if h.path != "/api/agents/status" {
		t.Errorf("path = %q, want /api/agents/status", h.path)
	}
	if len(snap) != 2 {
		t.Fatalf("len(snap) = %d, want 2", len(snap))
	}
	if snap["chain_scanner"].Online {
		t.Error("chain_scanner should be offline")
	}
	if got := snap["portfolio_coordinator"]; !got.Online || got.LastActivity != "now" {
		t.Errorf("portfolio_coordinator = %+v", got)
	}
}

func TestHTTPClient_AgentStatuses_ListForm(t *testing.T) {
	h := &testHandler{
		responseBody: `[
			{"name": "Chain Scanner", "status": "offline", "icon": "📡", "last_activity": "Offline", "tasks_completed": 0},
			{"name": "MeTTa Knowledge", "status": "online", "icon": "🧠", "last_activity": "Just now", "tasks_completed": 12}
		]`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	snap, err := c.AgentStatuses(context.Background())
	if err != nil {
		t.Fatalf("AgentStatuses() error = %v", err)
	}
	if got, ok := snap["chain_scanner"]; !ok || got.Online || got.LastActivity != "Offline" {
		t.Errorf("chain_scanner = %+v (present=%v)", got, ok)
	}
	if got, ok := snap["metta_knowledge"]; !ok || !got.Online {
		t.Errorf("metta_knowledge = %+v (present=%v)", got, ok)
	}
}

func TestHTTPClient_AgentStatuses_WrongShape(t *testing.T) {
	h := &testHandler{responseBody: `"just a string"`}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.AgentStatuses(context.Background())
	if !errors.Is(err, ErrMalformedJSON) {
		t.Fatalf("err = %v, want ErrMalformedJSON", err)
	}
}

// --- SendChat ---

func TestHTTPClient_SendChat(t *testing.T) {
	h := &testHandler{responseBody: `{"success": true, "response": "OK"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.SendChat(context.Background(), "Invest 10 ETH with moderate risk", "user-1")
	if err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/api/chat" {
		t.Errorf("request = %s %s, want POST /api/chat", h.method, h.path)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if body["text"] != "Invest 10 ETH with moderate risk" || body["user_id"] != "user-1" {
		t.Errorf("request body = %v", body)
	}
	if !resp.Success || resp.Response != "OK" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHTTPClient_SendChat_ApplicationError(t *testing.T) {
	h := &testHandler{responseBody: `{"success": false, "error": "coordinator busy"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.SendChat(context.Background(), "hi", "u")
	if err != nil {
		t.Fatalf("SendChat() error = %v, application errors are not transport errors", err)
	}
	if resp.Success || resp.Error != "coordinator busy" {
		t.Errorf("resp = %+v", resp)
	}
}

// --- Invest ---

func TestHTTPClient_CreateInvestment(t *testing.T) {
	h := &testHandler{responseBody: `{"success": true, "strategy_id": "s-1"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	raw, err := c.CreateInvestment(context.Background(), &model.InvestmentRequest{
		UserID:    "user-1",
		Amount:    10,
		Currency:  "ETH",
		RiskLevel: model.RiskModerate,
		Chains:    []model.Chain{model.ChainEthereum, model.ChainBase},
	})
	if err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/api/invest" {
		t.Errorf("request = %s %s, want POST /api/invest", h.method, h.path)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	for _, key := range []string{"user_id", "amount", "currency", "risk_level", "chains"} {
		if _, ok := body[key]; !ok {
			t.Errorf("request body missing %q: %s", key, h.body)
		}
	}
	if !strings.Contains(string(raw), "strategy_id") {
		t.Errorf("raw = %s, want backend payload verbatim", raw)
	}
}

// --- Portfolio ---

func TestHTTPClient_GetPortfolio(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"user_id": "user 1",
			"stats": {"total_value": 12.4, "total_pnl": 0.58, "avg_apy": 11.7, "active_positions": 3},
			"positions": [{"protocol": "Aave V3", "chain": "Ethereum", "amount": 5, "apy": 4.2, "value": 5.12, "pnl": 0.12}],
			"last_updated": "2026-01-15T10:00:00"
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	p, err := c.GetPortfolio(context.Background(), "user 1")
	if err != nil {
		t.Fatalf("GetPortfolio() error = %v", err)
	}
	if h.rawPath != "/api/portfolio/user%201" && h.path != "/api/portfolio/user 1" {
		t.Errorf("path = %q (raw %q), want escaped user id", h.path, h.rawPath)
	}
	if p.UserID != "user 1" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if len(p.Positions) != 1 || p.Positions[0].Protocol != "Aave V3" {
		t.Errorf("Positions = %+v", p.Positions)
	}
	if p.LastUpdated != "2026-01-15T10:00:00" {
		t.Errorf("LastUpdated = %q", p.LastUpdated)
	}
}

func TestHTTPClient_GetOpportunities(t *testing.T) {
	h := &testHandler{
		responseBody: `{"success": true, "opportunities": [{"protocol": "GMX", "chain": "arbitrum", "apy": 14.5, "tvl": 1000000, "risk_score": 6.2}]}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.GetOpportunities(context.Background())
	if err != nil {
		t.Fatalf("GetOpportunities() error = %v", err)
	}
	if h.path != "/api/opportunities" {
		t.Errorf("path = %q", h.path)
	}
	if !resp.Success || len(resp.Opportunities) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Opportunities[0].Protocol != "GMX" {
		t.Errorf("Protocol = %q", resp.Opportunities[0].Protocol)
	}
}

// --- Error handling ---

func TestHTTPClient_Error_500(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusInternalServerError,
		responseBody: `{"detail": "coordinator unreachable"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", te.StatusCode)
	}
	if te.StatusText != "Internal Server Error" {
		t.Errorf("StatusText = %q", te.StatusText)
	}
	if err.Error() != "API Error: Internal Server Error" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestHTTPClient_Error_404(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNotFound}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetPortfolio(context.Background(), "nobody")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", te.StatusCode)
	}
}

func TestHTTPClient_Error_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Request(context.Background(), http.MethodGet, PathHealth, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsTransportError(err) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if !errors.Is(err, ErrMalformedJSON) {
		t.Errorf("err = %v, want ErrMalformedJSON cause", err)
	}
}

func TestHTTPClient_Error_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url)
	_, err := c.SendChat(context.Background(), "hello", "u")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network failure", te.StatusCode)
	}
	if te.Cause == nil {
		t.Error("Cause should carry the network failure")
	}
}

func TestHTTPClient_Error_CanceledContext(t *testing.T) {
	h := &testHandler{
		responseBody: `{"status": "ok"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want to wrap context.Canceled", err)
	}
}

func TestTransportError_FormatString(t *testing.T) {
	te := &TransportError{Endpoint: "/api/chat", StatusCode: 403, StatusText: "Forbidden"}
	if te.Error() != "API Error: Forbidden" {
		t.Errorf("Error() = %q", te.Error())
	}
	te = &TransportError{Endpoint: "/api/chat", Cause: errors.New("dial tcp: refused")}
	if te.Error() != "/api/chat: dial tcp: refused" {
		t.Errorf("Error() = %q", te.Error())
	}
}
