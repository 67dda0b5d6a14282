package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/client"
	"github.com/alfredjeanlab/swarmdash/internal/events"
)

var subscribeCmd = &cobra.Command{
	Use:     "subscribe",
	Short:   "Stream subscription frames for the current user as JSON lines",
	GroupID: "agents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		relay, _ := cmd.Flags().GetBool("relay")
		if relay && cfg.NATSURL == "" {
			return fmt.Errorf("--relay requires SWARM_NATS_URL or a profile with nats_url")
		}

		ctx := cmd.Context()
		fw := &frameWriter{out: cmd.OutOrStdout()}
		if relay {
			fw.pub = publisher
		}

		return streamFrames(ctx, swarmClient, cfg.UserID, fw)
	},
}

// streamFrames writes every frame received on channel until ctx ends or the
// channel fails. Malformed frames are logged and skipped.
func streamFrames(ctx context.Context, tr client.Transport, channel string, fw *frameWriter) error {
	failed := make(chan error, 1)
	sub, err := tr.Subscribe(ctx, channel, func(raw json.RawMessage) {
		fw.write(ctx, raw)
	}, func(err error) {
		if errors.Is(err, client.ErrMalformedFrame) {
			slog.Warn("subscribe: skipping frame", "error", err)
			return
		}
		select {
		case failed <- err:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	defer sub.Close()
	slog.Info("subscribe: connected", "channel", channel)

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return fmt.Errorf("subscription closed: %w", err)
	case <-sub.Done():
		select {
		case err := <-failed:
			return fmt.Errorf("subscription closed: %w", err)
		default:
			return nil
		}
	}
}

// frameWriter prints each frame on its own line and optionally republishes
// it to the bus.
type frameWriter struct {
	mu  sync.Mutex
	out io.Writer
	pub events.Publisher
}

func (fw *frameWriter) write(ctx context.Context, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		buf.Reset()
		buf.Write(raw)
	}

	fw.mu.Lock()
	fmt.Fprintln(fw.out, buf.String())
	fw.mu.Unlock()

	if fw.pub != nil {
		if err := fw.pub.Publish(ctx, events.TopicFrame, json.RawMessage(buf.Bytes())); err != nil {
			slog.Warn("subscribe: relay failed", "error", err)
		}
	}
}

func init() {
	subscribeCmd.Flags().Bool("relay", false, "republish every frame to the NATS bus on "+events.TopicFrame)
}
