package tui

import (
	"fmt"
	"strings"

	"glyph-cli/internal/tui/render"
)

const tuiVersion = "v0.3.0"

// welcomeLines builds the preamble shown above the first message. It is
// rebuilt on resize so the separator rule tracks the width.
func welcomeLines(model, workdir string, width int) []render.Line {
	if model == "" {
		model = "(default)"
	}
	rule := width
	if rule > 60 {
		rule = 60
	}
	if rule < 10 {
		rule = 10
	}
	sep := strings.Repeat("─", rule)

	lines := []render.Line{
		{Spans: []render.Span{{Text: fmt.Sprintf(">_ glyph %s", tuiVersion), Style: bannerStyle}}},
		render.BlankLine(),
		{Spans: []render.Span{{Text: fmt.Sprintf("model:     %s   /model to change", model), Style: welcomeStyle}}},
		{Spans: []render.Span{{Text: fmt.Sprintf("directory: %s", workdir), Style: welcomeStyle}}},
		render.BlankLine(),
		{Spans: []render.Span{{Text: "Type a message, /help for commands, @ to mention a file.", Style: welcomeStyle}}},
		{Spans: []render.Span{{Text: sep, Style: welcomeStyle}}},
		render.BlankLine(),
	}
	return lines
}
