package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the swarm backend",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := swarmClient.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), map[string]string{"status": status, "api_url": cfg.APIURL}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s (%s)\n", status, cfg.APIURL)
		}

		if !isHealthy(status) {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func isHealthy(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "healthy", "ok", "online":
		return true
	}
	return false
}
