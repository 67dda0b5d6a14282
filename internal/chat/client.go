// Package chat implements the conversation client: one user turn in flight at
// a time, optimistic user turns, and an agent turn for every outcome.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// State of the conversation client.
type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	if s == AwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// Sender issues one chat request. client.HTTPClient satisfies it.
type Sender interface {
	SendChat(ctx context.Context, text, userID string) (*model.ChatResponse, error)
}

// Options configures a Client.
type Options struct {
	// UserID is sent as user_id on every request.
	UserID string

	// Greeting, when non-empty, is the first agent turn.
	Greeting string

	// Endpoints are named in transport failure diagnostics.
	Endpoints Endpoints

	// Publisher receives a ChatTurn event for every appended turn.
	// Default: events.NoopPublisher.
	Publisher events.Publisher

	// OnChange is called after every turn append or state change.
	// Called outside the lock, possibly from the request goroutine.
	OnChange func()

	// Now stamps turns. Default: time.Now.
	Now func() time.Time
}

// Client is the conversation state machine. All methods are safe for
// concurrent use.
type Client struct {
	sender Sender
	opts   Options

	mu      sync.Mutex
	state   State
	input   string
	turns   []model.Turn
	nextID  int64
	outcome Outcome
	failure error

	wg sync.WaitGroup
}

// New creates a Client in the Idle state.
func New(sender Sender, opts Options) *Client {
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Client{sender: sender, opts: opts, nextID: 1}
	if opts.Greeting != "" {
		c.appendLocked(model.SenderAgent, opts.Greeting)
	}
	return c
}

// SetInput replaces the input buffer.
func (c *Client) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the input buffer.
func (c *Client) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// State returns the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Turns returns a copy of the history in append order.
func (c *Client) Turns() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// LastOutcome is the outcome of the most recently resolved turn.
func (c *Client) LastOutcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// LastError is the failure behind the most recently resolved turn: a
// *client.TransportError or other send error, an *ApplicationError, or nil on
// success.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// SubmitInput submits the input buffer. See Submit.
func (c *Client) SubmitInput(ctx context.Context) bool {
	return c.Submit(ctx, c.Input())
}

// Submit appends a user turn for text, enters AwaitingResponse, clears the
// input buffer and sends the request in the background. It returns false and
// does nothing when text is blank or a turn is already in flight.
//
// There is no timeout. A request that never returns keeps the client in
// AwaitingResponse until ctx is cancelled.
func (c *Client) Submit(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	c.mu.Lock()
	if c.state == AwaitingResponse {
		c.mu.Unlock()
		return false
	}
	userTurn := c.appendLocked(model.SenderUser, text)
	c.state = AwaitingResponse
	c.input = ""
	c.wg.Add(1)
	c.mu.Unlock()

	c.emit(ctx, userTurn)

	go func() {
		defer c.wg.Done()
		c.resolve(ctx, text)
	}()
	return true
}

// Wait blocks until no request is in flight.
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) resolve(ctx context.Context, text string) {
	resp, err := c.sender.SendChat(ctx, text, c.opts.UserID)
	outcome, reply := Classify(resp, err, c.opts.Endpoints)
	switch outcome {
	case OutcomeTransportFailure:
		slog.Warn("chat: backend unreachable", "error", err)
	case OutcomeApplicationError:
		slog.Info("chat: backend reported failure", "error", resp.Error)
	default:
		slog.Debug("chat: reply received", "len", len(reply))
	}

	c.mu.Lock()
	agentTurn := c.appendLocked(model.SenderAgent, reply)
	c.outcome = outcome
	c.failure = Failure(resp, err)
	c.state = Idle
	c.mu.Unlock()

	c.emit(ctx, agentTurn)
}

// appendLocked must be called with c.mu held.
func (c *Client) appendLocked(sender model.Sender, text string) model.Turn {
	t := model.Turn{
		ID:        c.nextID,
		Sender:    sender,
		Text:      text,
		Timestamp: c.opts.Now(),
	}
	c.nextID++
	c.turns = append(c.turns, t)
	return t
}

func (c *Client) emit(ctx context.Context, t model.Turn) {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
	// Publishing must not fail on a cancelled request context.
	pubCtx := context.WithoutCancel(ctx)
	if err := c.opts.Publisher.Publish(pubCtx, events.TopicChatTurn, events.ChatTurn{UserID: c.opts.UserID, Turn: t}); err != nil {
		slog.Warn("chat: publish failed", "error", err)
	}
}
