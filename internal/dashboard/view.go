package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/swarmdash/internal/chat"
	"github.com/alfredjeanlab/swarmdash/internal/model"
	"github.com/alfredjeanlab/swarmdash/internal/portfolio"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	activeTab    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Underline(true)
	inactiveTab  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	agentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("215"))
	timeStyle    = lipgloss.NewStyle().Faint(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m Model) View() string {
	side := panelStyle.Width(sidebarWidth).Render(renderSidebar(m.agents, m.showAlloc))

	var main string
	if m.active == tabPortfolio {
		main = renderPortfolio(m.view)
	} else {
		main = m.renderChat()
	}
	mainPanel := panelStyle.Width(m.viewport.Width + 2).Render(renderTabs(m.active) + "\n\n" + main)

	return lipgloss.JoinHorizontal(lipgloss.Top, side, mainPanel)
}

func renderTabs(active tab) string {
	names := []string{"💬 Chat", "📊 Portfolio"}
	parts := make([]string, len(names))
	for i, n := range names {
		if tab(i) == active {
			parts[i] = activeTab.Render(n)
		} else {
			parts[i] = inactiveTab.Render(n)
		}
	}
	return strings.Join(parts, "   ") + hintStyle.Render("   (tab to switch)")
}

func (m Model) renderChat() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.awaiting {
		b.WriteString(m.spinner.View() + " agents are thinking...")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(renderQuickActions())
	return b.String()
}

func renderQuickActions() string {
	actions := chat.QuickActions()
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("F%d %s", i+1, a.Label)
	}
	return hintStyle.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return hintStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderTurnHeader(t))
		b.WriteString("\n")
		if t.Sender == model.SenderAgent {
			b.WriteString(m.md.render(t.Text))
		} else {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func renderTurnHeader(t model.Turn) string {
	who := userStyle.Render("👤 You")
	if t.Sender == model.SenderAgent {
		who = agentStyle.Render("🐝 YieldSwarm")
	}
	return who + " " + timeStyle.Render(t.Timestamp.Format("15:04:05"))
}

// renderSidebar draws the roster and, when revealed, the allocation preview.
// Counts are recomputed from agents on every call.
func renderSidebar(agents []model.AgentRecord, showAlloc bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle.Render("🐝 Agent Swarm"),
		headerStyle.Render(fmt.Sprintf("%d/%d Online", roster.OnlineCount(agents), len(agents))))

	for _, a := range agents {
		fmt.Fprintf(&b, "%s %s %s\n", ui.StatusDot(a.Status), a.Icon, a.Name)
		fmt.Fprintf(&b, "    %s · %s · %d tasks\n",
			ui.RenderStatus(a.Status), ui.RenderMuted(a.LastActivity), a.TasksCompleted)
	}
	fmt.Fprintf(&b, "\n%s %d", headerStyle.Render("Total tasks:"), roster.TotalTasks(agents))

	if showAlloc {
		b.WriteString("\n\n")
		b.WriteString(renderAllocation(portfolio.SampleAllocation()))
	}
	return b.String()
}

func renderAllocation(entries []model.AllocationEntry) string {
	sum := portfolio.SummarizeAllocation(entries)
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎯 Proposed Allocation"))
	b.WriteString("\n")
	for _, e := range entries {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■")
		fmt.Fprintf(&b, "%s %-10s %4.0f%%  %.1f%% APY\n", swatch, e.Protocol, e.Percentage, e.APY)
	}
	fmt.Fprintf(&b, "%s %.2f ETH  %s %.1f%%\n",
		headerStyle.Render("Total:"), sum.TotalAmount,
		headerStyle.Render("Weighted APY:"), sum.WeightedAPY)
	fmt.Fprintf(&b, "%s +%.2f ETH/yr", headerStyle.Render("Projected:"), sum.ProjectedYearly)
	return b.String()
}

func renderPortfolio(v *portfolio.View) string {
	if v == nil {
		return hintStyle.Render("Loading portfolio...")
	}
	var b strings.Builder
	if v.Sample {
		b.WriteString(warningStyle.Render("Showing sample data; backend portfolio unavailable."))
		b.WriteString("\n\n")
	}

	s := v.Summary
	fmt.Fprintf(&b, "💎 %s %.2f ETH %s\n", headerStyle.Render("Total Value:"), s.TotalValue,
		hintStyle.Render(fmt.Sprintf("($%.2f)", s.ValueUSD)))
	fmt.Fprintf(&b, "📈 %s %s ETH (%s%%)\n", headerStyle.Render("P&L:"),
		ui.RenderSigned(s.TotalPnL, ".2f"), ui.RenderSigned(s.PnLPercent, ".2f"))
	fmt.Fprintf(&b, "⚡ %s %.1f%% across %d positions\n\n", headerStyle.Render("Avg APY:"), s.AvgAPY, s.Count)

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-12s %-10s %9s %7s %9s %9s", "PROTOCOL", "CHAIN", "AMOUNT", "APY", "VALUE", "P&L")))
	for _, p := range v.Portfolio.Positions {
		fmt.Fprintf(&b, "%-12s %-10s %9.2f %6.1f%% %9.2f %s\n",
			truncate(p.Protocol, 12), truncate(p.Chain, 10), p.Amount, p.APY, p.Value, ui.RenderSigned(p.PnL, "9.2f"))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("ctrl+r to refresh"))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
