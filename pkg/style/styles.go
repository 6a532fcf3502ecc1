// Package style renders handrail output for terminals. Styled output
// goes through pterm; plain output is used when stdout is not a TTY.
package style

import (
	"strings"

	"github.com/pterm/pterm"
)

var (
	TitleStyle = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)
	MutedStyle = pterm.NewStyle(pterm.FgGray)
	PathStyle  = pterm.NewStyle(pterm.FgLightBlue)
	ErrorStyle = pterm.NewStyle(pterm.FgLightRed, pterm.Bold)
	DryStyle   = pterm.NewStyle(pterm.FgYellow)
)

// Operation indicators.
var (
	SuccessIndicator   = pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("✓")
	ErrorIndicator     = ErrorStyle.Sprint("✗")
	SimulatedIndicator = DryStyle.Sprint("○")
	InfoIndicator      = pterm.NewStyle(pterm.FgCyan).Sprint("•")
)

// Indent prefixes every line of s with level*2 spaces.
func Indent(s string, level int) string {
	pad := strings.Repeat("  ", level)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// Bold wraps s in a bold style.
func Bold(s string) string {
	return pterm.NewStyle(pterm.Bold).Sprint(s)
}
