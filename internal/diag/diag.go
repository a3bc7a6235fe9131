// Package diag renders the driver-facing form of a failure: the
// "Parse Error" / "Type Error" / "Runtime Error" categorized line spec.md
// §7 requires, plus (for errors that carry a span) a source snippet with a
// caret, colored when standard error is a terminal.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/mattn/go-isatty"

	"github.com/ntwiles/moss/internal/ast"
)

// Category is the top-level classification the driver prints ahead of the
// rendered error.
type Category int

const (
	ParseError Category = iota
	TypeError
	RuntimeError
)

func (c Category) String() string {
	switch c {
	case ParseError:
		return "Parse Error"
	case TypeError:
		return "Type Error"
	case RuntimeError:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// Diagnostic pairs a failure's category and message with the source span it
// occurred at, when one is available. Span is the zero value when the
// underlying error carries no position (most RuntimeErrors).
type Diagnostic struct {
	Category Category
	Message  string
	Source   string
	Span     ast.Span
	HasSpan  bool
}

// New builds a Diagnostic with no span, for errors without source position
// (most runtime errors, and analyzer errors that are purely structural).
func New(cat Category, message string) Diagnostic {
	return Diagnostic{Category: cat, Message: message}
}

// NewSpanned builds a Diagnostic anchored to a byte range in source.
func NewSpanned(cat Category, message, source string, span ast.Span) Diagnostic {
	return Diagnostic{Category: cat, Message: message, Source: source, Span: span, HasSpan: true}
}

// Render formats one diagnostic for the driver's stderr, coloring the
// caret and header when color is true.
func (d Diagnostic) Render(color bool) string {
	var sb strings.Builder

	sb.WriteString(colorize(color, bold, d.Category.String()+":"))
	sb.WriteString(" ")
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	if !d.HasSpan || d.Source == "" {
		return sb.String()
	}

	line, col, lineText := locate(d.Source, d.Span.Start)
	lineNumStr := fmt.Sprintf("%4d | ", line)
	sb.WriteString(lineNumStr)
	sb.WriteString(lineText)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
	sb.WriteString(colorize(color, red, "^"))
	sb.WriteString("\n")

	return sb.String()
}

// RenderAll sorts diagnostics into natural source-position order (rather
// than whatever order they were collected in) and renders each in turn.
// The CLI reports one diagnostic per failure and calls Render directly.
func RenderAll(ds []Diagnostic, color bool) string {
	sortKey := make([]string, len(ds))
	for i, d := range ds {
		sortKey[i] = fmt.Sprintf("%08d:%08d:%s", d.Span.Start, d.Span.End, d.Message)
	}
	order := make([]int, len(ds))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return natural.Less(sortKey[order[i]], sortKey[order[j]])
	})

	var sb strings.Builder
	for n, idx := range order {
		sb.WriteString(ds[idx].Render(color))
		if n < len(order)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderForStderr picks color by calling isTerminal, which reports
// whether fd 2 is an interactive terminal (see IsTerminalStderr).
func RenderForStderr(d Diagnostic, isTerminal func() bool) string {
	return d.Render(isTerminal())
}

// IsTerminalStderr reports whether stderr (fd 2) is attached to a terminal.
func IsTerminalStderr(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// locate converts a byte offset into 1-indexed line/column plus that line's
// text, by scanning for newlines. Spans in this system carry no
// pre-computed line/column (only byte offsets), unlike the teacher's
// lexer.Position, since the grammar producing ast.Span is out of scope here.
func locate(source string, offset int) (line, col int, lineText string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	lineEnd := strings.IndexByte(source[lineStart:], '\n')
	if lineEnd == -1 {
		lineText = source[lineStart:]
	} else {
		lineText = source[lineStart : lineStart+lineEnd]
	}
	return
}

const (
	bold = "\033[1m"
	red  = "\033[1;31m"
	rst  = "\033[0m"
)

func colorize(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + rst
}
