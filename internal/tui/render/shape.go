package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ShapeState caches the wrapped form of the sealed prefix of a streaming
// text block. Everything up to the last newline is sealed: word wrap
// restarts after a newline, so those lines can never change as more text
// is appended. Only the trailing partial paragraph re-wraps per call.
type ShapeState struct {
	width     int
	sealedLen int
	sealed    []Line
}

// Reset drops all sealed state, forcing a full re-shape on the next call.
func (s *ShapeState) Reset() {
	s.width = 0
	s.sealedLen = 0
	s.sealed = nil
}

// ShapeText wraps content at width into styled lines, reusing sealed
// lines from st when the content has only grown since the last call.
// The output is identical to wrapping the whole content from scratch.
func ShapeText(content string, st *ShapeState, width int, style lipgloss.Style) []Line {
	if st == nil {
		return styleLines(WrapText(content, width), style)
	}
	if st.width != width || st.sealedLen > len(content) {
		st.Reset()
		st.width = width
	}

	sealEnd := strings.LastIndexByte(content, '\n') + 1
	if sealEnd > st.sealedLen {
		fresh := content[st.sealedLen:sealEnd]
		for _, seg := range strings.Split(strings.TrimSuffix(fresh, "\n"), "\n") {
			var wrapped []string
			if seg == "" {
				wrapped = []string{""}
			} else {
				wrapped = wrapLine(seg, width)
			}
			st.sealed = append(st.sealed, styleLines(wrapped, style)...)
		}
		st.sealedLen = sealEnd
	}

	tail := content[st.sealedLen:]
	tailLines := []string{""}
	if tail != "" {
		tailLines = wrapLine(tail, width)
	}

	out := make([]Line, 0, len(st.sealed)+len(tailLines))
	out = append(out, st.sealed...)
	out = append(out, styleLines(tailLines, style)...)
	return out
}

func styleLines(raw []string, style lipgloss.Style) []Line {
	out := make([]Line, 0, len(raw))
	for _, l := range raw {
		out = append(out, Line{Spans: []Span{{Text: l, Style: style}}})
	}
	return out
}
