package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/chat"
	"github.com/alfredjeanlab/swarmdash/internal/client"
	"github.com/alfredjeanlab/swarmdash/internal/model"
)

var errBackendUnreachable = errors.New("backend unreachable")

var chatCmd = &cobra.Command{
	Use:     "chat [message...]",
	Short:   "Send a message to the agent swarm",
	GroupID: "agents",
	Long: `Sends one message and prints the agent reply. With no arguments, every
non-blank line read from stdin is sent as its own turn, in order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := chat.New(swarmClient, chat.Options{
			UserID:    cfg.UserID,
			Endpoints: endpoints(),
			Publisher: publisher,
		})

		if len(args) > 0 {
			return converse(cmd.Context(), cmd.OutOrStdout(), conv, strings.Join(args, " "))
		}

		var failed error
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			err := converse(cmd.Context(), cmd.OutOrStdout(), conv, line)
			switch {
			case errors.Is(err, errBackendUnreachable):
				failed = err
			case err != nil:
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return failed
	},
}

// converse submits one turn, waits for the reply and prints it.
func converse(ctx context.Context, out io.Writer, conv *chat.Client, text string) error {
	if !conv.Submit(ctx, text) {
		return fmt.Errorf("message rejected: empty or a reply is still pending")
	}
	conv.Wait()

	turns := conv.Turns()
	reply := turns[len(turns)-1]
	failure := conv.LastError()
	if jsonOutput {
		var errText string
		if failure != nil {
			errText = failure.Error()
		}
		if err := printJSON(out, struct {
			Outcome string     `json:"outcome"`
			Error   string     `json:"error,omitempty"`
			Turn    model.Turn `json:"turn"`
		}{conv.LastOutcome().String(), errText, reply}); err != nil {
			return err
		}
	} else {
		printTurn(out, reply)
	}

	switch {
	case failure == nil, chat.IsApplicationError(failure):
		// The reply turn already reports application errors.
		return nil
	case client.IsTransportError(failure):
		return fmt.Errorf("%w: %v", errBackendUnreachable, failure)
	}
	return failure
}
