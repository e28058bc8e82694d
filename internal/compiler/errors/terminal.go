package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	severityColors = map[Severity]*color.Color{
		Info:    color.New(color.FgBlue),
		Warning: color.New(color.FgYellow, color.Bold),
		Error:   color.New(color.FgRed, color.Bold),
		Fatal:   color.New(color.FgRed, color.Bold, color.Underline),
	}
	gutter  = color.New(color.FgBlue)
	lineNum = color.New(color.FgHiBlack)
	caret   = color.New(color.FgRed, color.Bold)
	help    = color.New(color.FgCyan, color.Bold)
)

func init() {
	// Respect NO_COLOR and non-tty stderr the same way the rest of the
	// CLI's color usage does; fatih/color checks this itself for Output
	// but diagnostics are written by the caller, so mirror it here.
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}
}

// FormatForTerminal renders e as colored, human-readable text with a
// source snippet and caret underline when context is available.
func (e *CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	sc := severityColors[e.Severity]
	sb.WriteString(sc.Sprintf("%s[%s]", strings.ToUpper(e.Severity.String()), e.Code))
	sb.WriteString(fmt.Sprintf(": %s\n", e.Message))
	sb.WriteString(gutter.Sprintf("  --> ") + fmt.Sprintf("%s:%d:%d\n", e.Location.File, e.Location.Line, e.Location.Column))

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatContext(e.Context))
	}
	if e.Suggestion != nil {
		sb.WriteString(help.Sprintf("\nhelp: ") + e.Suggestion.Description + "\n")
		if e.Suggestion.NewCode != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", e.Suggestion.NewCode))
		}
	}
	return sb.String()
}

func formatContext(ctx ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(gutter.Sprintf("   |\n"))
	for i, line := range ctx.SourceLines {
		n := i + 1
		if i == ctx.Highlight.Line {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", lineNum.Sprintf("%2d", n), gutter.Sprintf("|"), line))
			width := ctx.Highlight.End - ctx.Highlight.Start
			if width <= 0 {
				width = 1
			}
			sb.WriteString(gutter.Sprintf("   | ") + strings.Repeat(" ", ctx.Highlight.Start) + caret.Sprintf("%s", strings.Repeat("^", width)) + "\n")
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", lineNum.Sprintf("%2d", n), gutter.Sprintf("|"), line))
		}
	}
	sb.WriteString(gutter.Sprintf("   |\n"))
	return sb.String()
}
