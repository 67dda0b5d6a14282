package dashboard

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

// markdown renders agent turns. It falls back to plain text when the
// renderer cannot be built or fails on a turn.
type markdown struct {
	r *glamour.TermRenderer
}

func newMarkdown(width int) *markdown {
	style := "notty"
	if ui.ColorEnabled() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &markdown{}
	}
	return &markdown{r: r}
}

func (md *markdown) render(text string) string {
	if md == nil || md.r == nil {
		return text
	}
	// Agent replies use bare newlines for layout; keep them as hard breaks.
	out, err := md.r.Render(strings.ReplaceAll(text, "\n", "  \n"))
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
