// Package client is the transport layer between the dashboard and the swarm
// backend. It is the only package that knows endpoint paths and payload
// shapes; callers get decoded model values or raw JSON.
package client

import (
	"context"
	"encoding/json"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// Transport is the generic request/response and subscription contract.
type Transport interface {
	// Request performs a JSON call against endpoint (a path relative to the
	// base URL, e.g. "/api/health") and returns the response body verbatim.
	// Failures are reported as *TransportError.
	Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error)

	// Subscribe opens a duplex channel for the given identity and forwards
	// every decoded inbound frame to onFrame. Channel failures go to onError
	// and never reconnect.
	Subscribe(ctx context.Context, channel string, onFrame func(json.RawMessage), onError func(error)) (*Subscription, error)
}

// SwarmClient is the typed surface the CLI, roster synchronizer and
// conversation client use. It is implemented by HTTPClient.
type SwarmClient interface {
	Transport

	// Health
	Health(ctx context.Context) (string, error)

	// Agents
	AgentStatuses(ctx context.Context) (model.StatusSnapshot, error)

	// Conversation
	SendChat(ctx context.Context, text, userID string) (*model.ChatResponse, error)

	// Portfolio
	CreateInvestment(ctx context.Context, req *model.InvestmentRequest) (json.RawMessage, error)
	GetPortfolio(ctx context.Context, userID string) (*model.Portfolio, error)
	GetOpportunities(ctx context.Context) (*model.OpportunitiesResponse, error)

	// BaseURL returns the configured backend base URL.
	BaseURL() string

	// Lifecycle
	Close() error
}
