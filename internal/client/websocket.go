package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrMalformedFrame is passed to the error callback when an inbound frame is
// not valid JSON. The subscription stays open.
var ErrMalformedFrame = errors.New("malformed JSON frame")

// closeGrace bounds how long Close spends writing the close frame.
const closeGrace = time.Second

// Subscription owns one WebSocket connection opened by Subscribe.
type Subscription struct {
	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
	closing   chan struct{}
}

// Close shuts the connection down. It is safe to call more than once and
// from inside the frame callbacks. Use Done to wait for the reader to exit.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeGrace))
		err = s.conn.Close()
	})
	return err
}

// Done is closed once the reader goroutine has exited, whether from Close,
// a remote close or a channel failure.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// WebSocketURL derives the subscription URL for channel from an HTTP base URL
// by replacing the leading "http" with "ws".
func WebSocketURL(baseURL, channel string) string {
	return strings.Replace(baseURL, "http", "ws", 1) + PathWebSocket + url.PathEscape(channel)
}

// Subscribe opens /ws/{channel} and forwards each JSON frame to onFrame from
// a single reader goroutine. Read failures other than a normal close are
// reported to onError. There is no reconnect; callers resubscribe if they
// want to.
func (c *HTTPClient) Subscribe(ctx context.Context, channel string, onFrame func(json.RawMessage), onError func(error)) (*Subscription, error) {
	if onFrame == nil {
		onFrame = func(json.RawMessage) {}
	}
	if onError == nil {
		onError = func(error) {}
	}

	endpoint := PathWebSocket + channel
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, WebSocketURL(c.baseURL, channel), nil)
	if err != nil {
		te := &TransportError{Endpoint: endpoint, Cause: err}
		if resp != nil && resp.StatusCode != 0 {
			te.StatusCode = resp.StatusCode
			te.StatusText = strings.TrimPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode))
		}
		return nil, te
	}

	sub := &Subscription{
		conn:    conn,
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-sub.closing:
					return
				default:
				}
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return
				}
				onError(&TransportError{Endpoint: endpoint, Cause: err})
				return
			}
			if !json.Valid(data) {
				onError(&TransportError{Endpoint: endpoint, Cause: ErrMalformedFrame})
				continue
			}
			onFrame(json.RawMessage(data))
		}
	}()

	// Tie the connection to ctx so a cancelled caller tears it down.
	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}
