package style

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/arthur-debert/handrail/pkg/operations"
)

// HandlerListing describes one registry category for display.
type HandlerListing struct {
	Category string
	Names    []string
	Default  string
}

// Renderer turns handrail results into user-facing text.
type Renderer interface {
	RenderResults(results []operations.Result) string
	RenderHandlers(listings []HandlerListing) string
	RenderInfo(path string, info map[string]interface{}) string
	RenderError(err error) string
}

// ForWriter picks the terminal renderer when w is a TTY and the plain
// renderer otherwise.
func ForWriter(w io.Writer) Renderer {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return NewTerminalRenderer()
	}
	return NewPlainRenderer()
}

// TerminalRenderer renders with pterm styling.
type TerminalRenderer struct{}

func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

func (r *TerminalRenderer) RenderResults(results []operations.Result) string {
	if len(results) == 0 {
		return MutedStyle.Sprint("Nothing to do")
	}
	var b strings.Builder
	for _, res := range results {
		indicator := SuccessIndicator
		suffix := ""
		if res.Simulated {
			indicator = SimulatedIndicator
			suffix = DryStyle.Sprint(" (dry-run)")
		}
		fmt.Fprintf(&b, "%s %-7s %s%s\n", indicator, res.Op, PathStyle.Sprint(res.Path), suffix)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderHandlers(listings []HandlerListing) string {
	var b strings.Builder
	for _, l := range listings {
		b.WriteString(TitleStyle.Sprint(l.Category) + "\n")
		for _, name := range l.Names {
			line := fmt.Sprintf("%s %s", InfoIndicator, name)
			if name == l.Default {
				line += MutedStyle.Sprint(" (default)")
			}
			b.WriteString(Indent(line, 1) + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderInfo(path string, info map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Sprint(path) + "\n")
	for _, key := range sortedKeys(info) {
		line := fmt.Sprintf("%s: %v", Bold(key), info[key])
		b.WriteString(Indent(line, 1) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	// Structured errors already carry their code in Error().
	return fmt.Sprintf("%s %s", ErrorIndicator, ErrorStyle.Sprint(err.Error()))
}

// PlainRenderer renders unstyled text for pipes and logs.
type PlainRenderer struct{}

func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

func (r *PlainRenderer) RenderResults(results []operations.Result) string {
	if len(results) == 0 {
		return "Nothing to do"
	}
	var b strings.Builder
	for _, res := range results {
		if res.Simulated {
			fmt.Fprintf(&b, "%s %s (dry-run)\n", res.Op, res.Path)
		} else {
			fmt.Fprintf(&b, "%s %s\n", res.Op, res.Path)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *PlainRenderer) RenderHandlers(listings []HandlerListing) string {
	var b strings.Builder
	for _, l := range listings {
		b.WriteString(l.Category + ":\n")
		for _, name := range l.Names {
			if name == l.Default {
				fmt.Fprintf(&b, "  - %s (default)\n", name)
			} else {
				fmt.Fprintf(&b, "  - %s\n", name)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *PlainRenderer) RenderInfo(path string, info map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(path + ":\n")
	for _, key := range sortedKeys(info) {
		fmt.Fprintf(&b, "  %s: %v\n", key, info[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
