package model

import "time"

// Sender tags who produced a conversation turn.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Turn is a single immutable message in the conversation history.
// IDs increase monotonically in the order turns are appended.
type Turn struct {
	ID        int64     `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
