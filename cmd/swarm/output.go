package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/swarmdash/internal/model"
	"github.com/alfredjeanlab/swarmdash/internal/portfolio"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRawJSON pretty-prints a payload the backend returned verbatim.
func printRawJSON(w io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return printJSON(w, v)
}

func printAgentTable(w io.Writer, agents []model.AgentRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tSTATUS\tLAST ACTIVITY\tTASKS")
	for _, a := range agents {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%d\n",
			a.Icon, a.Name,
			ui.RenderStatus(a.Status),
			a.LastActivity,
			a.TasksCompleted,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d/%d online, %d tasks completed\n",
		roster.OnlineCount(agents), len(agents), roster.TotalTasks(agents))
}

func printTurn(w io.Writer, t model.Turn) {
	who := "you"
	if t.Sender == model.SenderAgent {
		who = "swarm"
	}
	fmt.Fprintf(w, "%s %s\n%s\n\n",
		ui.RenderAccent(who), ui.RenderMuted(t.Timestamp.Format("15:04:05")), t.Text)
}

func printPortfolioView(w io.Writer, v portfolio.View) {
	if v.Sample {
		fmt.Fprintln(w, ui.RenderMuted("(sample data; backend portfolio unavailable)"))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROTOCOL\tCHAIN\tAMOUNT\tAPY\tVALUE\tP&L")
	for _, p := range v.Portfolio.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.1f%%\t%.2f\t%s\n",
			p.Protocol, p.Chain, p.Amount, p.APY, p.Value, ui.RenderSigned(p.PnL, ".2f"))
	}
	tw.Flush()

	s := v.Summary
	fmt.Fprintf(w, "\nTotal value: %.2f ETH ($%.2f)\n", s.TotalValue, s.ValueUSD)
	fmt.Fprintf(w, "P&L:         %s ETH (%s%%)\n", ui.RenderSigned(s.TotalPnL, ".2f"), ui.RenderSigned(s.PnLPercent, ".2f"))
	fmt.Fprintf(w, "Avg APY:     %.1f%% across %d positions\n", s.AvgAPY, s.Count)
}

func printAllocation(w io.Writer, entries []model.AllocationEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROTOCOL\tCHAIN\tAMOUNT\tSHARE\tAPY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.0f%%\t%.1f%%\n", e.Protocol, e.Chain, e.Amount, e.Percentage, e.APY)
	}
	tw.Flush()

	s := portfolio.SummarizeAllocation(entries)
	fmt.Fprintf(w, "\nTotal %.2f ETH, weighted APY %.2f%%, projected +%.2f ETH/yr\n",
		s.TotalAmount, s.WeightedAPY, s.ProjectedYearly)
}

func printOpportunities(w io.Writer, opps []model.Opportunity) {
	if len(opps) == 0 {
		fmt.Fprintln(w, "no opportunities")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROTOCOL\tCHAIN\tCATEGORY\tAPY\tTVL\tRISK")
	for _, o := range opps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%s\t%.1f\n",
			o.Protocol, o.Chain, o.Category, o.APY, formatTVL(o.TVL), o.RiskScore)
	}
	tw.Flush()
}

func formatTVL(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	}
	return fmt.Sprintf("$%.0f", v)
}
