package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

// helpRule styles the second capture group of every match of re in cobra's
// plain help text. The first and third groups are kept as they are.
type helpRule struct {
	re    *regexp.Regexp
	style func(string) string
}

var helpRules = []helpRule{
	// Section headers such as "Agents:" or "Flags:".
	{regexp.MustCompile(`(?m)^()([A-Z][^\n]*:)([ \t]*)$`), func(s string) string { return ui.RenderAccent(strings.TrimSpace(s)) }},
	// Command names in a group listing.
	{regexp.MustCompile(`(?m)^(  )(\S+)(  )`), ui.RenderCommand},
	// Flag value types, e.g. "--amount float".
	{regexp.MustCompile(`(--?\S+\s+)(string|strings|float|int|duration|stringSlice)(\b)`), ui.RenderMuted},
	// Defaults, e.g. (default "warn").
	{regexp.MustCompile(`()(\(default "?[^)"]*"?\))()`), ui.RenderMuted},
}

// colorizedHelpFunc returns a Cobra help function that styles the default
// help text when stdout supports color.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)

		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, r := range helpRules {
		s = r.re.ReplaceAllStringFunc(s, func(match string) string {
			parts := r.re.FindStringSubmatch(match)
			if len(parts) != 4 {
				return match
			}
			return parts[1] + r.style(parts[2]) + parts[3]
		})
	}
	return s
}
