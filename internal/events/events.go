// Package events fans dashboard state changes out to a NATS bus so other
// terminals (swarm watch --nats) can follow along.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// Event topic constants
const (
	TopicRosterUpdated = "swarm.roster.updated"
	TopicChatTurn      = "swarm.chat.turn"

	// TopicFrame carries subscription frames relayed verbatim.
	TopicFrame = "swarm.ws.frame"

	// TopicAll matches every swarm topic.
	TopicAll = "swarm.>"
)

// Event types

// RosterUpdated carries the full roster after a synchronization step.
type RosterUpdated struct {
	Source      string              `json:"source"` // "tick", "refresh" or "snapshot"
	Agents      []model.AgentRecord `json:"agents"`
	OnlineCount int                 `json:"online_count"`
	TotalTasks  int64               `json:"total_tasks"`
}

// ChatTurn carries one appended conversation turn.
type ChatTurn struct {
	UserID string     `json:"user_id"`
	Turn   model.Turn `json:"turn"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Message is one payload received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel. Call the returned
	// cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// NewPublisher connects to NATS at url, or returns a NoopPublisher when url
// is empty.
func NewPublisher(url string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(url)
}

// NoopPublisher drops every event. Used when no bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// Decode unmarshals msg into the event type registered for its topic:
// *RosterUpdated or *ChatTurn.
func Decode(msg Message) (any, error) {
	var v any
	switch msg.Topic {
	case TopicRosterUpdated:
		v = &RosterUpdated{}
	case TopicChatTurn:
		v = &ChatTurn{}
	default:
		return nil, fmt.Errorf("unknown topic %q", msg.Topic)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", msg.Topic, err)
	}
	return v, nil
}
