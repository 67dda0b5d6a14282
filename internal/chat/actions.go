package chat

import "strings"

// Greeting is the welcome turn the dashboard opens with.
const Greeting = "👋 Welcome to YieldSwarm AI! I'm your autonomous DeFi yield optimizer powered by 6 specialized AI agents.\n\n" +
	"Tell me how much you want to invest and your risk tolerance (conservative/moderate/aggressive).\n\n" +
	"Example: \"Invest 10 ETH with moderate risk on Ethereum\""

// QuickAction is a canned prompt offered next to the input box.
type QuickAction struct {
	Label string
	Text  string
}

// QuickActions returns the canned prompts in display order.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "💰 Quick Invest", Text: "Invest 10 ETH with moderate risk"},
		{Label: "📊 My Portfolio", Text: "Show my portfolio"},
		{Label: "❓ Help", Text: "Help"},
	}
}

// MentionsInvestment reports whether text talks about investing. The
// dashboard shows the allocation view once any agent turn does.
func MentionsInvestment(text string) bool {
	return strings.Contains(strings.ToLower(text), "invest")
}
