package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/model"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow agent status changes",
	GroupID: "agents",
	Long: `Runs the status synchronizer and prints each agent whose status,
activity or task count changed since the previous step.

With --nats, no synchronizer runs locally; roster updates and chat turns
published by another swarm process (for example a running dashboard) are
printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		useNATS, _ := cmd.Flags().GetBool("nats")
		if interval <= 0 {
			interval = cfg.PollInterval
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		seen := make(map[string]agentState)

		if useNATS {
			if cfg.NATSURL == "" {
				return fmt.Errorf("--nats requires SWARM_NATS_URL or a profile with nats_url")
			}
			return watchNATS(ctx, out, cfg.NATSURL, seen)
		}

		if once {
			s := roster.New(roster.Config{Fetcher: swarmClient})
			if err := s.Refresh(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: agent status unavailable: %v\n", err)
			}
			return printChanges(out, s.Agents(), seen)
		}
		return watchPoll(ctx, out, swarmClient, interval, seen)
	},
}

// watchPoll runs a synchronizer and prints the diff after every step.
func watchPoll(ctx context.Context, out io.Writer, fetcher roster.StatusFetcher, interval time.Duration, seen map[string]agentState) error {
	// loopCtx ends before Stop waits on the loop, so a pending OnChange
	// never blocks shutdown.
	loopCtx, cancel := context.WithCancel(ctx)
	updates := make(chan []model.AgentRecord)
	s := roster.New(roster.Config{
		Fetcher:   fetcher,
		Interval:  interval,
		Publisher: publisher,
		OnChange: func(agents []model.AgentRecord) {
			select {
			case updates <- agents:
			case <-loopCtx.Done():
			}
		},
	})

	if err := printChanges(out, s.Agents(), seen); err != nil {
		cancel()
		return err
	}
	s.Start(loopCtx)
	defer s.Stop()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case agents := <-updates:
			if err := printChanges(out, agents, seen); err != nil {
				return err
			}
		}
	}
}

// watchNATS prints roster updates and chat turns received from the bus.
func watchNATS(ctx context.Context, out io.Writer, natsURL string, seen map[string]agentState) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats: disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()
	return followEvents(ctx, out, sub, seen)
}

// followEvents prints roster changes and chat turns from sub until ctx ends
// or the subscription closes.
func followEvents(ctx context.Context, out io.Writer, sub events.Subscriber, seen map[string]agentState) error {
	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := events.Decode(msg)
			if err != nil {
				slog.Debug("watch: skipping event", "topic", msg.Topic, "error", err)
				continue
			}
			switch ev := ev.(type) {
			case *events.RosterUpdated:
				if err := printChanges(out, ev.Agents, seen); err != nil {
					return err
				}
			case *events.ChatTurn:
				if jsonOutput {
					if err := printJSON(out, ev); err != nil {
						return err
					}
				} else {
					printTurn(out, ev.Turn)
				}
			}
		}
	}
}

// agentState is the part of an AgentRecord watch reports changes on.
type agentState struct {
	Status       model.AgentStatus
	LastActivity string
	Tasks        int64
}

func stateOf(a model.AgentRecord) agentState {
	return agentState{Status: a.Status, LastActivity: a.LastActivity, Tasks: a.TasksCompleted}
}

// diffRoster returns the agents that are new or changed since last seen. It
// updates seen in place.
func diffRoster(agents []model.AgentRecord, seen map[string]agentState) []model.AgentRecord {
	var changed []model.AgentRecord
	for _, a := range agents {
		key := a.Key()
		cur := stateOf(a)
		if prev, ok := seen[key]; !ok || prev != cur {
			changed = append(changed, a)
		}
		seen[key] = cur
	}
	return changed
}

func printChanges(out io.Writer, agents []model.AgentRecord, seen map[string]agentState) error {
	changed := diffRoster(agents, seen)
	if len(changed) == 0 {
		return nil
	}
	if jsonOutput {
		return printJSON(out, changed)
	}
	ts := ui.RenderMuted(time.Now().Format("15:04:05"))
	for _, a := range changed {
		fmt.Fprintf(out, "%s %s %s %s  %s · %s · %d tasks\n",
			ts, ui.StatusDot(a.Status), a.Icon, a.Name,
			ui.RenderStatus(a.Status), a.LastActivity, a.TasksCompleted)
	}
	fmt.Fprintf(out, "%s %s\n", ts, ui.RenderMuted(fmt.Sprintf("%d/%d online, %d tasks",
		roster.OnlineCount(agents), len(agents), roster.TotalTasks(agents))))
	return nil
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "synchronization interval (default $SWARM_POLL_INTERVAL or 5s)")
	watchCmd.Flags().Bool("once", false, "print the roster after one refresh and exit")
	watchCmd.Flags().Bool("nats", false, "follow events from the NATS bus instead of polling")
}
