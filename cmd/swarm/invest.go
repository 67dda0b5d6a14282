package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

var investCmd = &cobra.Command{
	Use:     "invest",
	Short:   "Submit a structured investment request",
	GroupID: "portfolio",
	Example: `  swarm invest --amount 10 --risk moderate --chain ethereum --chain arbitrum`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetFloat64("amount")
		currency, _ := cmd.Flags().GetString("currency")
		risk, _ := cmd.Flags().GetString("risk")
		chains, _ := cmd.Flags().GetStringSlice("chain")

		req := &model.InvestmentRequest{
			UserID:    cfg.UserID,
			Amount:    amount,
			Currency:  currency,
			RiskLevel: model.RiskLevel(risk),
		}
		for _, c := range chains {
			req.Chains = append(req.Chains, model.Chain(c))
		}
		if err := model.ValidateInvestment(req); err != nil {
			return err
		}

		raw, err := swarmClient.CreateInvestment(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("submitting investment: %w", err)
		}
		return printRawJSON(cmd.OutOrStdout(), raw)
	},
}

func init() {
	investCmd.Flags().Float64("amount", 0, "amount to invest (required, > 0)")
	investCmd.Flags().String("currency", model.DefaultCurrency, "currency of the amount")
	investCmd.Flags().String("risk", string(model.RiskModerate), "risk level (conservative, moderate, aggressive)")
	investCmd.Flags().StringSlice("chain", []string{string(model.ChainEthereum)}, "target chain, repeatable (ethereum, polygon, arbitrum, optimism, base)")
	_ = investCmd.MarkFlagRequired("amount")
}
