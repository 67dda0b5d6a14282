package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alfredjeanlab/swarmdash/internal/chat"
	"github.com/alfredjeanlab/swarmdash/internal/client"
	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/model"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
)

// Options configures Run.
type Options struct {
	Client       client.SwarmClient
	UserID       string
	PollInterval time.Duration
	Endpoints    chat.Endpoints
	Publisher    events.Publisher

	// Subscribe opens /ws/{UserID} and applies status frames to the roster.
	Subscribe bool

	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// relay forwards component callbacks into the running program. Messages sent
// before the program exists are dropped; the model reads initial state
// directly.
type relay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (r *relay) set(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

func (r *relay) forward(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Run starts the dashboard and blocks until the user quits or ctx ends. The
// synchronizer and subscription live exactly as long as the program.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return fmt.Errorf("dashboard: client is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := &relay{}
	syncer := roster.New(roster.Config{
		Fetcher:   opts.Client,
		Interval:  opts.PollInterval,
		Publisher: opts.Publisher,
		OnChange:  func(a []model.AgentRecord) { r.forward(rosterMsg(a)) },
	})
	conv := chat.New(opts.Client, chat.Options{
		UserID:    opts.UserID,
		Greeting:  chat.Greeting,
		Endpoints: opts.Endpoints,
		Publisher: opts.Publisher,
		OnChange:  func() { r.forward(chatChangedMsg{}) },
	})

	m := newModel(ctx, conv, syncer, opts.Client, opts.UserID)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(m, popts...)
	r.set(p.Send)

	syncer.Start(ctx)
	defer syncer.Stop()

	if opts.Subscribe {
		sub, err := opts.Client.Subscribe(ctx, opts.UserID, func(raw json.RawMessage) {
			snap, ok, err := client.DecodeStatusFrame(raw)
			if err != nil {
				slog.Debug("dashboard: bad status frame", "error", err)
				return
			}
			if ok {
				syncer.ApplySnapshot(ctx, snap)
			}
		}, func(err error) {
			slog.Warn("dashboard: subscription failed", "error", err)
		})
		if err != nil {
			slog.Warn("dashboard: subscription unavailable", "error", err)
		} else {
			defer sub.Close()
		}
	}

	_, err := p.Run()
	// Let an in-flight turn observe cancellation before returning.
	cancel()
	conv.Wait()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
