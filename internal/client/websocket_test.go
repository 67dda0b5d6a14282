package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer upgrades every request and sends frames, then closes normally.
// The request path is sent on paths.
func wsServer(t *testing.T, frames []string, paths chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case paths <- r.URL.Path:
		default:
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// Wait for the client to acknowledge the close.
		_, _, _ = conn.ReadMessage()
	}))
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []json.RawMessage
	errs   []error
}

func (r *frameRecorder) onFrame(raw json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, raw)
}

func (r *frameRecorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func waitDone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not finish")
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		base, channel, want string
	}{
		{"http://localhost:8080", "user-1", "ws://localhost:8080/ws/user-1"},
		{"https://swarm.example.com", "u", "wss://swarm.example.com/ws/u"},
	}
	for _, tt := range tests {
		if got := WebSocketURL(tt.base, tt.channel); got != tt.want {
			t.Errorf("WebSocketURL(%q, %q) = %q, want %q", tt.base, tt.channel, got, tt.want)
		}
	}
}

func TestSubscribe_ForwardsFramesInOrder(t *testing.T) {
	paths := make(chan string, 1)
	srv := wsServer(t, []string{
		`{"type":"status","data":{"chain_scanner":{"online":false}}}`,
		`{"type":"note","data":"hello"}`,
		`[1,2,3]`,
	}, paths)
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	rec := &frameRecorder{}
	sub, err := c.Subscribe(context.Background(), "user-42", rec.onFrame, rec.onError)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	waitDone(t, sub)

	if path := <-paths; path != "/ws/user-42" {
		t.Errorf("path = %q, want /ws/user-42", path)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(rec.frames))
	}
	if string(rec.frames[2]) != `[1,2,3]` {
		t.Errorf("frame[2] = %s, want verbatim", rec.frames[2])
	}
	if len(rec.errs) != 0 {
		t.Errorf("normal close should not report errors, got %v", rec.errs)
	}
}

func TestSubscribe_MalformedFrameReportedAndSkipped(t *testing.T) {
	srv := wsServer(t, []string{`{not json`, `{"ok":true}`}, make(chan string, 1))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	rec := &frameRecorder{}
	sub, err := c.Subscribe(context.Background(), "u", rec.onFrame, rec.onError)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	waitDone(t, sub)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.frames) != 1 || string(rec.frames[0]) != `{"ok":true}` {
		t.Errorf("frames = %v, want only the valid frame", rec.frames)
	}
	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], ErrMalformedFrame) {
		t.Errorf("errs = %v, want one ErrMalformedFrame", rec.errs)
	}
}

func TestSubscribe_AbruptDropReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"n":1}`))
		// Drop the TCP connection without a close frame.
		conn.UnderlyingConn().Close()
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	rec := &frameRecorder{}
	sub, err := c.Subscribe(context.Background(), "u", rec.onFrame, rec.onError)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	waitDone(t, sub)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.errs) != 1 {
		t.Fatalf("errs = %v, want exactly one channel failure", rec.errs)
	}
	if !IsTransportError(rec.errs[0]) {
		t.Errorf("err = %T, want *TransportError", rec.errs[0])
	}
}

func TestSubscribe_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Subscribe(context.Background(), "u", nil, nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if te.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", te.StatusCode)
	}
}

func TestSubscribe_CloseStopsReaderSilently(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPClient(srv.URL)
	rec := &frameRecorder{}
	sub, err := c.Subscribe(context.Background(), "u", rec.onFrame, rec.onError)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	_ = sub.Close()
	_ = sub.Close() // idempotent
	waitDone(t, sub)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.errs) != 0 {
		t.Errorf("Close should not report errors, got %v", rec.errs)
	}
}

func TestSubscribe_ContextCancelCloses(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := NewHTTPClient(srv.URL)
	sub, err := c.Subscribe(ctx, "u", nil, nil)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	cancel()
	waitDone(t, sub)
}
