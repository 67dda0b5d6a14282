package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/model"
)

func TestDiffRoster_InitialPoll(t *testing.T) {
	seen := make(map[string]agentState)
	changed := diffRoster(model.DefaultRoster(), seen)
	if len(changed) != 6 {
		t.Fatalf("got %d changed, want 6", len(changed))
	}
	if len(seen) != 6 {
		t.Fatalf("got %d seen, want 6", len(seen))
	}
	if _, ok := seen["chain_scanner"]; !ok {
		t.Errorf("seen keyed by agent key, got %v", seen)
	}
}

func TestDiffRoster_NoChanges(t *testing.T) {
	seen := make(map[string]agentState)
	diffRoster(model.DefaultRoster(), seen)

	if changed := diffRoster(model.DefaultRoster(), seen); len(changed) != 0 {
		t.Fatalf("got %d changed, want 0", len(changed))
	}
}

func TestDiffRoster_ChangedFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.AgentRecord)
	}{
		{"status", func(a *model.AgentRecord) { a.Status = model.AgentOffline }},
		{"activity", func(a *model.AgentRecord) { a.LastActivity = "Just now" }},
		{"tasks", func(a *model.AgentRecord) { a.TasksCompleted++ }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]agentState)
			agents := model.DefaultRoster()
			diffRoster(agents, seen)

			tt.mutate(&agents[2])
			changed := diffRoster(agents, seen)
			if len(changed) != 1 {
				t.Fatalf("got %d changed, want 1", len(changed))
			}
			if changed[0].Name != "MeTTa Knowledge" {
				t.Errorf("changed[0].Name = %q", changed[0].Name)
			}
		})
	}
}

func TestDiffRoster_IconIgnored(t *testing.T) {
	seen := make(map[string]agentState)
	agents := model.DefaultRoster()
	diffRoster(agents, seen)

	agents[0].Icon = "x"
	if changed := diffRoster(agents, seen); len(changed) != 0 {
		t.Fatalf("icon change reported: %v", changed)
	}
}

func TestPrintChanges_SummaryLine(t *testing.T) {
	jsonOutput = false
	var buf bytes.Buffer
	seen := make(map[string]agentState)
	if err := printChanges(&buf, model.DefaultRoster(), seen); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "6/6 online, 2327 tasks") {
		t.Errorf("missing summary, got:\n%s", out)
	}
	if strings.Count(out, "\n") != 7 {
		t.Errorf("want 6 agent lines and a summary, got:\n%s", out)
	}

	buf.Reset()
	if err := printChanges(&buf, model.DefaultRoster(), seen); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unchanged roster printed %q", buf.String())
	}
}

// fakeSubscriber replays msgs on TopicAll and then closes the channel.
type fakeSubscriber struct {
	msgs  []events.Message
	topic string
}

func (f *fakeSubscriber) Subscribe(topic string) (<-chan events.Message, func(), error) {
	f.topic = topic
	ch := make(chan events.Message, len(f.msgs))
	for _, m := range f.msgs {
		ch <- m
	}
	close(ch)
	return ch, func() {}, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func TestFollowEvents(t *testing.T) {
	jsonOutput = false
	agents := model.DefaultRoster()
	roster, _ := json.Marshal(events.RosterUpdated{Source: "tick", Agents: agents})
	agents[0].TasksCompleted++
	roster2, _ := json.Marshal(events.RosterUpdated{Source: "tick", Agents: agents})
	turn, _ := json.Marshal(events.ChatTurn{UserID: "u", Turn: model.Turn{ID: 3, Sender: model.SenderAgent, Text: "Allocation ready"}})

	sub := &fakeSubscriber{msgs: []events.Message{
		{Topic: events.TopicRosterUpdated, Data: roster},
		{Topic: events.TopicFrame, Data: []byte(`{"type":"status"}`)},
		{Topic: events.TopicRosterUpdated, Data: roster2},
		{Topic: events.TopicChatTurn, Data: turn},
	}}

	var buf bytes.Buffer
	if err := followEvents(context.Background(), &buf, sub, make(map[string]agentState)); err != nil {
		t.Fatalf("followEvents: %v", err)
	}
	if sub.topic != events.TopicAll {
		t.Errorf("subscribed to %q", sub.topic)
	}

	out := buf.String()
	if n := strings.Count(out, "Portfolio Coordinator"); n != 2 {
		t.Errorf("Portfolio Coordinator printed %d times, want 2 (initial and change):\n%s", n, out)
	}
	if n := strings.Count(out, "Chain Scanner"); n != 1 {
		t.Errorf("unchanged agent printed %d times, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "Allocation ready") {
		t.Errorf("chat turn missing:\n%s", out)
	}
}

// flappingFetcher reports chain_scanner alternately online and offline so
// every refresh changes the roster.
type flappingFetcher struct {
	mu     sync.Mutex
	online bool
}

func (f *flappingFetcher) AgentStatuses(ctx context.Context) (model.StatusSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = !f.online
	return model.StatusSnapshot{"chain_scanner": {Online: f.online}}, nil
}

// brokenWriter accepts ok writes, then fails.
type brokenWriter struct {
	mu sync.Mutex
	ok int
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ok == 0 {
		return 0, errors.New("broken pipe")
	}
	w.ok--
	return len(p), nil
}

func TestWatchPoll_WriteErrorStopsPromptly(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	errc := make(chan error, 1)
	go func() {
		errc <- watchPoll(context.Background(), &brokenWriter{ok: 1}, &flappingFetcher{},
			5*time.Millisecond, make(map[string]agentState))
	}()

	select {
	case err := <-errc:
		if err == nil || !strings.Contains(err.Error(), "broken pipe") {
			t.Fatalf("got %v, want the write error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchPoll did not return after a write error")
	}
}

func TestWatchPoll_CancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	errc := make(chan error, 1)
	go func() {
		errc <- watchPoll(ctx, &buf, &flappingFetcher{}, 5*time.Millisecond, make(map[string]agentState))
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("watchPoll: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchPoll did not return after cancel")
	}
	if !strings.Contains(buf.String(), "Chain Scanner") {
		t.Errorf("no changes printed:\n%s", buf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
