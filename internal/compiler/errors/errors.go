// Package errors is the compiler-wide diagnostic type. The parser, the
// type analyzer and the build driver report failures as a
// *CompilerError so the CLI can render them uniformly, either as ANSI
// terminal output or as JSON. The lexer never fails, and the code
// emitter's internal errors are plain errors, not *CompilerError.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pulse-lang/pulse/internal/compiler/position"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "fatal":
		*s = Fatal
	default:
		*s = Error
	}
	return nil
}

// SourceLocation pinpoints a diagnostic within a named source file.
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length"`
}

// Highlight identifies the span within ErrorContext.SourceLines to
// underline.
type Highlight struct {
	Line  int `json:"line"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// ErrorContext carries the source lines surrounding a diagnostic so the
// terminal renderer can print a snippet instead of a bare location.
type ErrorContext struct {
	SourceLines []string  `json:"source_lines"`
	Highlight   Highlight `json:"highlight"`
}

// Suggestion is an optional auto-fix hint attached to a diagnostic.
type Suggestion struct {
	Description string `json:"description"`
	OldCode     string `json:"old_code"`
	NewCode     string `json:"new_code"`
}

// CompilerError is the single diagnostic type produced by every
// compiler phase.
type CompilerError struct {
	Phase      string         `json:"phase"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Severity   Severity       `json:"severity"`
	Location   SourceLocation `json:"location"`
	Context    ErrorContext   `json:"context"`
	Suggestion *Suggestion    `json:"suggestion,omitempty"`
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Code, e.Message)
}

// WithSuggestion attaches an auto-fix suggestion and returns e for
// chaining.
func (e *CompilerError) WithSuggestion(s Suggestion) *CompilerError {
	e.Suggestion = &s
	return e
}

func newError(phase, code, message string, span position.Span, source, file string) *CompilerError {
	e := &CompilerError{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Severity: Error,
		Location: SourceLocation{
			File:   file,
			Line:   span.Start.Line,
			Column: span.Start.Column,
			Length: span.End.Offset - span.Start.Offset,
		},
	}
	e.Context = buildContext(source, span)
	return e
}

// buildContext slices three lines of leading and trailing context around
// span out of source, for terminal rendering.
func buildContext(source string, span position.Span) ErrorContext {
	if source == "" {
		return ErrorContext{}
	}
	lines := strings.Split(source, "\n")
	errLine := span.Start.Line - 1
	if errLine < 0 || errLine >= len(lines) {
		return ErrorContext{}
	}
	first := errLine - 3
	if first < 0 {
		first = 0
	}
	last := errLine + 3
	if last >= len(lines) {
		last = len(lines) - 1
	}
	return ErrorContext{
		SourceLines: lines[first : last+1],
		Highlight: Highlight{
			Line:  errLine - first,
			Start: span.Start.Column,
			End:   span.End.Column,
		},
	}
}
