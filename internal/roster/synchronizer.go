package roster

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// DefaultInterval is the polling period used when Config.Interval is zero.
const DefaultInterval = 5 * time.Second

// Event sources reported in events.RosterUpdated.
const (
	SourceRefresh  = "refresh"
	SourceTick     = "tick"
	SourceSnapshot = "snapshot"
)

// StatusFetcher returns the backend's current agent status report.
// client.HTTPClient satisfies it.
type StatusFetcher interface {
	AgentStatuses(ctx context.Context) (model.StatusSnapshot, error)
}

// Config configures a Synchronizer.
type Config struct {
	// Fetcher supplies authoritative snapshots. Required.
	Fetcher StatusFetcher

	// Interval between ticks. Default: 5 seconds.
	Interval time.Duration

	// Seed is the starting roster. Default: model.DefaultRoster().
	Seed []model.AgentRecord

	// Rand drives the simulation pass. Default: DefaultRand.
	Rand Rand

	// Publisher receives a RosterUpdated event after every change.
	// Default: events.NoopPublisher.
	Publisher events.Publisher

	// OnChange is called with a copy of the roster after every change.
	// Called outside the lock.
	OnChange func(agents []model.AgentRecord)
}

// Synchronizer owns the agent roster. Only its own refresh and tick steps
// (and ApplySnapshot) write to it; readers get copies.
type Synchronizer struct {
	mu     sync.RWMutex
	agents []model.AgentRecord

	fetcher   StatusFetcher
	interval  time.Duration
	rng       Rand
	publisher events.Publisher
	onChange  func([]model.AgentRecord)

	stop chan struct{}
	done chan struct{}
}

// New creates a Synchronizer seeded from cfg.
func New(cfg Config) *Synchronizer {
	seed := cfg.Seed
	if len(seed) == 0 {
		seed = model.DefaultRoster()
	}
	agents := make([]model.AgentRecord, len(seed))
	copy(agents, seed)

	s := &Synchronizer{
		agents:    agents,
		fetcher:   cfg.Fetcher,
		interval:  cfg.Interval,
		rng:       cfg.Rand,
		publisher: cfg.Publisher,
		onChange:  cfg.OnChange,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.rng == nil {
		s.rng = DefaultRand
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	return s
}

// Agents returns a copy of the current roster.
func (s *Synchronizer) Agents() []model.AgentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AgentRecord, len(s.agents))
	copy(out, s.agents)
	return out
}

// OnlineCount is recomputed from the current roster on every call.
func (s *Synchronizer) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return OnlineCount(s.agents)
}

// TotalTasks is recomputed from the current roster on every call.
func (s *Synchronizer) TotalTasks() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalTasks(s.agents)
}

// Refresh fetches one authoritative snapshot and merges it without a
// simulation pass. A fetch failure is logged and leaves the roster as is.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	snap, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.update(ctx, SourceRefresh, func(cur []model.AgentRecord) []model.AgentRecord {
		return Merge(cur, snap)
	})
	return nil
}

// Tick runs one synchronization step: fetch and merge when the backend
// answers, then simulate regardless. Fetch errors are logged, never returned.
func (s *Synchronizer) Tick(ctx context.Context) {
	snap, err := s.fetch(ctx)
	if err != nil {
		snap = nil
	}
	s.update(ctx, SourceTick, func(cur []model.AgentRecord) []model.AgentRecord {
		return Simulate(Merge(cur, snap), s.rng)
	})
}

// ApplySnapshot merges a snapshot that arrived out of band, for example a
// status frame on the subscription channel.
func (s *Synchronizer) ApplySnapshot(ctx context.Context, snap model.StatusSnapshot) {
	s.update(ctx, SourceSnapshot, func(cur []model.AgentRecord) []model.AgentRecord {
		return Merge(cur, snap)
	})
}

// Start launches a background goroutine that performs one Refresh and then
// ticks every interval. It does not block. Call Stop to shut it down.
// Calling Start on a running Synchronizer is a no-op.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go s.loop(ctx, stop, done)
	slog.Info("roster: synchronizer started", "interval", s.interval)
}

// Stop shuts down the tick loop and waits for it to exit. A fetch already in
// progress is not interrupted; cancel the context passed to Start for that.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
		slog.Debug("roster: synchronizer stopped")
	}
}

func (s *Synchronizer) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	_ = s.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

func (s *Synchronizer) fetch(ctx context.Context) (model.StatusSnapshot, error) {
	if s.fetcher == nil {
		return nil, nil
	}
	snap, err := s.fetcher.AgentStatuses(ctx)
	if err != nil {
		slog.Debug("roster: using simulated status", "error", err)
		return nil, err
	}
	return snap, nil
}

func (s *Synchronizer) update(ctx context.Context, source string, step func([]model.AgentRecord) []model.AgentRecord) {
	s.mu.Lock()
	s.agents = step(s.agents)
	out := make([]model.AgentRecord, len(s.agents))
	copy(out, s.agents)
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(out)
	}

	ev := events.RosterUpdated{
		Source:      source,
		Agents:      out,
		OnlineCount: OnlineCount(out),
		TotalTasks:  TotalTasks(out),
	}
	if err := s.publisher.Publish(ctx, events.TopicRosterUpdated, ev); err != nil {
		slog.Warn("roster: publish failed", "error", err)
	}
}
