package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var opportunitiesCmd = &cobra.Command{
	Use:     "opportunities",
	Aliases: []string{"opps"},
	Short:   "List yield opportunities reported by the backend",
	GroupID: "portfolio",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := swarmClient.GetOpportunities(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing opportunities: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printOpportunities(cmd.OutOrStdout(), resp.Opportunities)
		return nil
	},
}
