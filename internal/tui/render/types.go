package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span is a run of text with a single style.
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line is one terminal row built from styled spans.
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Plain returns the line's text without styling.
func (l Line) Plain() string {
	var sb strings.Builder
	for _, sp := range l.Spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// BlankLine is a reusable empty separator row.
func BlankLine() Line {
	return Line{}
}

// LinesToStrings flattens styled lines into ANSI strings.
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		out = append(out, line.Style.Render(strings.Join(segments, "")))
	}
	return out
}

// CopyLines deep-copies lines so they can be cached safely while the
// source keeps mutating during streaming.
func CopyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		spans := make([]Span, len(l.Spans))
		copy(spans, l.Spans)
		out[i] = Line{Spans: spans, Style: l.Style}
	}
	return out
}

// PrefixLines prepends an initial-row span to the first line and a
// continuation span to the rest.
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}
