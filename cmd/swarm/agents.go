package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
)

var agentsCmd = &cobra.Command{
	Use:     "agents",
	Short:   "Show the agent roster with live status",
	GroupID: "agents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := roster.New(roster.Config{Fetcher: swarmClient})
		if err := s.Refresh(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: agent status unavailable, showing last known roster: %v\n", err)
		}

		agents := s.Agents()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), events.RosterUpdated{
				Source:      roster.SourceRefresh,
				Agents:      agents,
				OnlineCount: roster.OnlineCount(agents),
				TotalTasks:  roster.TotalTasks(agents),
			})
		}
		printAgentTable(cmd.OutOrStdout(), agents)
		return nil
	},
}
