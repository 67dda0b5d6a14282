package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/portfolio"
)

var portfolioCmd = &cobra.Command{
	Use:     "portfolio",
	Short:   "Show positions and portfolio summary",
	GroupID: "portfolio",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		showAlloc, _ := cmd.Flags().GetBool("allocation")
		out := cmd.OutOrStdout()

		v := portfolio.Load(cmd.Context(), swarmClient, cfg.UserID)
		if v.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: portfolio unavailable: %v\n", v.Err)
		}

		if jsonOutput {
			if !showAlloc {
				return printJSON(out, v)
			}
			entries := portfolio.SampleAllocation()
			return printJSON(out, map[string]any{
				"view":       v,
				"allocation": entries,
				"summary":    portfolio.SummarizeAllocation(entries),
			})
		}

		printPortfolioView(out, v)
		if showAlloc {
			fmt.Fprintln(out)
			printAllocation(out, portfolio.SampleAllocation())
		}
		return nil
	},
}

func init() {
	portfolioCmd.Flags().Bool("allocation", false, "also show the proposed allocation")
}
